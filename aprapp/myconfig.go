package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"aprgen/utils"
)

type MinioConfig struct {
	Addr     string `toml:"addr" json:"addr"`
	User     string `toml:"user" json:"user"`
	Password string `toml:"password" json:"-"`
	Ssl      bool   `toml:"ssl" json:"ssl"`
	Bucket   string `toml:"bucket" json:"bucket"`
	Prefix   string `toml:"prefix" json:"prefix"`
	Timeout  uint   `toml:"timeout" json:"timeout"`
}

type OllamaConfig struct {
	Url        string `toml:"url" json:"url"`
	EmbedModel string `toml:"embed_model" json:"embed_model"`
	ChatModel  string `toml:"chat_model" json:"chat_model"`
	Timeout    uint   `toml:"timeout" json:"timeout"`
}

type RagConfig struct {
	ChunkSize       int    `toml:"chunk_size" json:"chunk_size"`
	ChunkOverlap    int    `toml:"chunk_overlap" json:"chunk_overlap"`
	MaxChunkChars   int    `toml:"max_chunk_chars" json:"max_chunk_chars"`
	TopK            int    `toml:"top_k" json:"top_k"`
	ContextMaxChars int    `toml:"context_max_chars" json:"context_max_chars"`
	PersistPath     string `toml:"persist_path" json:"persist_path"`
	OutputPath      string `toml:"output_path" json:"output_path"`
	LoadOnStart     bool   `toml:"load_on_start" json:"load_on_start"`
}

type RedisConfig struct {
	Addr       string `toml:"addr" json:"addr"`
	Password   string `toml:"password" json:"-"`
	Db         uint   `toml:"db" json:"db"`
	HistoryKey string `toml:"history_key" json:"history_key"`
	HistoryMax int64  `toml:"history_max" json:"history_max"`
	Timeout    uint   `toml:"timeout" json:"timeout"`
}

type LogConfig struct {
	Level         string `toml:"level" json:"level"`
	Path          string `toml:"path" json:"path"`
	Filename      string `toml:"filename" json:"filename"`
	Rotate_files  uint   `toml:"rotate_files" json:"rotate_files"`
	Rotate_mbytes uint   `toml:"rotate_mbytes" json:"rotate_mbytes"`
}

type MyConfig struct {
	Filename string    `toml:"filename" json:"filename" xml:"filename,attr"`
	LoadTime time.Time `toml:"load_time" json:"load_time" xml:"load_time,attr"`

	Version   string `toml:"version" json:"version"`
	Host      string `toml:"host" json:"host"`
	Port      uint   `toml:"port" json:"port"`
	SslEnable bool   `toml:"ssl_enable" json:"ssl_enable"`
	// bcrypt hash of the API bearer token, empty disables auth.
	// generate with tool/mybcrypt.
	TokenHash string `toml:"token_hash" json:"-"`

	MinioConfig  MinioConfig  `toml:"minio" json:"minio"`
	OllamaConfig OllamaConfig `toml:"ollama" json:"ollama"`
	RagConfig    RagConfig    `toml:"rag" json:"rag"`
	RedisConfig  RedisConfig  `toml:"redis" json:"redis"`
	LogConfig    LogConfig    `toml:"log" json:"log"`
}

func (p *MyConfig) Dump() []byte {
	b, _ := json.MarshalIndent(p, "", " ")
	return b
}

func LoadConfig(filename string) (*MyConfig, error) {
	if !utils.ExistedOrCopy(filename, filename+".tpl") {
		return nil, fmt.Errorf("config file [%s] or template file are not found", filename)
	}

	myconfig := &MyConfig{
		Filename: filename,
		LoadTime: time.Now(),
	}
	_, err := toml.DecodeFile(filename, myconfig)
	if err != nil {
		return nil, fmt.Errorf("config file [%s] unmarshal toml failed: %s", filename, err)
	}

	myconfig.setDefaults()
	return myconfig, nil
}

// defaults match the original corpus tuning: 500 char chunks with 50
// overlap, top-3 retrieval, 3000 char context.
func (p *MyConfig) setDefaults() {
	if p.RagConfig.ChunkSize <= 0 {
		p.RagConfig.ChunkSize = 500
	}
	if p.RagConfig.ChunkOverlap <= 0 {
		p.RagConfig.ChunkOverlap = 50
	}
	if p.RagConfig.MaxChunkChars <= 0 {
		p.RagConfig.MaxChunkChars = 4000
	}
	if p.RagConfig.TopK <= 0 {
		p.RagConfig.TopK = 3
	}
	if p.RagConfig.ContextMaxChars <= 0 {
		p.RagConfig.ContextMaxChars = 3000
	}
	if p.RagConfig.OutputPath == "" {
		p.RagConfig.OutputPath = "data/out"
	}
	if p.OllamaConfig.Url == "" {
		p.OllamaConfig.Url = "http://localhost:11434"
	}
	if p.RedisConfig.HistoryKey == "" {
		p.RedisConfig.HistoryKey = "aprgen:history"
	}
	if p.RedisConfig.HistoryMax <= 0 {
		p.RedisConfig.HistoryMax = 100
	}
}
