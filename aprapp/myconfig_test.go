package main

import (
	"os"
	"path"
	"strings"
	"testing"
)

const testToml = `
version = "1.0.0"
host = "127.0.0.1"
port = 8088

[minio]
addr = "localhost:9000"
user = "minioadmin"
password = "secret"
bucket = "documentos-apr"

[ollama]
url = "http://localhost:11434"
embed_model = "nomic-embed-text"
chat_model = "llama3.1:latest"

[rag]
top_k = 5

[log]
level = "info"
path = "log"
filename = "aprgen.log"
`

func TestLoadConfig(t *testing.T) {
	filename := path.Join(t.TempDir(), "aprgen.toml")
	if err := os.WriteFile(filename, []byte(testToml), 0644); err != nil {
		t.Fatal(err)
	}

	myconfig, err := LoadConfig(filename)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if myconfig.Port != 8088 {
		t.Errorf("port = %d", myconfig.Port)
	}
	if myconfig.MinioConfig.Bucket != "documentos-apr" {
		t.Errorf("bucket = %q", myconfig.MinioConfig.Bucket)
	}
	if myconfig.OllamaConfig.ChatModel != "llama3.1:latest" {
		t.Errorf("chat model = %q", myconfig.OllamaConfig.ChatModel)
	}

	// explicit value kept, unset values filled with defaults
	if myconfig.RagConfig.TopK != 5 {
		t.Errorf("top_k = %d, want 5", myconfig.RagConfig.TopK)
	}
	if myconfig.RagConfig.ChunkSize != 500 {
		t.Errorf("default chunk_size = %d, want 500", myconfig.RagConfig.ChunkSize)
	}
	if myconfig.RagConfig.ChunkOverlap != 50 {
		t.Errorf("default chunk_overlap = %d, want 50", myconfig.RagConfig.ChunkOverlap)
	}
	if myconfig.RedisConfig.HistoryKey == "" {
		t.Error("default history_key not set")
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfig(path.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing config file must be an error")
	}
}

func TestConfigDumpHidesSecrets(t *testing.T) {
	filename := path.Join(t.TempDir(), "aprgen.toml")
	if err := os.WriteFile(filename, []byte(testToml), 0644); err != nil {
		t.Fatal(err)
	}
	myconfig, err := LoadConfig(filename)
	if err != nil {
		t.Fatal(err)
	}

	dump := string(myconfig.Dump())
	if len(dump) == 0 {
		t.Fatal("empty dump")
	}
	if strings.Contains(dump, "secret") {
		t.Errorf("dump leaks the minio password: %s", dump)
	}
}
