package rag

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fixed vectors instead of a live embedding model
var testVectors = map[string][]float32{
	"trabalho em altura com andaime": {1.0, 0.0, 0.0},
	"choque elétrico em painel":      {0.0, 1.0, 0.0},
	"escavação de vala profunda":     {0.0, 0.0, 1.0},
	"altura":                         {0.9, 0.1, 0.0},
}

func testEmbedFunc(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := testVectors[text]; ok {
		return vec, nil
	}
	return nil, fmt.Errorf("no test vector for %q", text)
}

func testStore(t *testing.T) *VectorStore {
	store := &VectorStore{} // no Path, memory only
	if err := store.Open(testEmbedFunc); err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store
}

func TestStoreRebuildAndQuery(t *testing.T) {
	store := testStore(t)

	chunks := []Chunk{
		{Source: "nr35.pdf", Content: "trabalho em altura com andaime"},
		{Source: "nr10.pdf", Content: "choque elétrico em painel"},
		{Source: "nr18.pdf", Content: "escavação de vala profunda"},
	}
	if err := store.Rebuild(context.Background(), chunks); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if store.Count() != 3 {
		t.Fatalf("count = %d, want 3", store.Count())
	}

	results, err := store.Query(context.Background(), "altura", 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Content != "trabalho em altura com andaime" {
		t.Errorf("top result = %q", results[0].Content)
	}
	if results[0].Metadata["source"] != "nr35.pdf" {
		t.Errorf("top result source = %q", results[0].Metadata["source"])
	}
	t.Logf("similarity: %.4f", results[0].Similarity)
}

func TestStoreQueryCapsTopK(t *testing.T) {
	store := testStore(t)

	chunks := []Chunk{
		{Source: "nr35.pdf", Content: "trabalho em altura com andaime"},
		{Source: "nr10.pdf", Content: "choque elétrico em painel"},
	}
	if err := store.Rebuild(context.Background(), chunks); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	// asking for more results than documents must not error
	results, err := store.Query(context.Background(), "altura", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestStoreEmptyCorpus(t *testing.T) {
	store := testStore(t)

	_, err := store.Query(context.Background(), "altura", 3)
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("query on empty store: %v, want ErrEmptyCorpus", err)
	}

	if err = store.Rebuild(context.Background(), nil); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("rebuild with no chunks: %v, want ErrEmptyCorpus", err)
	}
}

// Queries run while POST /corpus/reload rebuilds the index, the store
// must survive that under the race detector.
func TestStoreConcurrentRebuildQuery(t *testing.T) {
	store := testStore(t)

	chunks := []Chunk{
		{Source: "nr35.pdf", Content: "trabalho em altura com andaime"},
		{Source: "nr10.pdf", Content: "choque elétrico em painel"},
	}
	if err := store.Rebuild(context.Background(), chunks); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	done := make(chan bool)
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			if err := store.Rebuild(context.Background(), chunks); err != nil {
				t.Errorf("rebuild %d: %v", i, err)
				return
			}
		}
	}()

	for i := 0; i < 50; i++ {
		results, err := store.Query(context.Background(), "altura", 1)
		if err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
		if len(results) != 1 {
			t.Fatalf("query %d: got %d results, want 1", i, len(results))
		}
		store.Count()
	}
	<-done
}

func TestFloats64To32(t *testing.T) {
	vec := Floats64To32([]float64{0.5, -1.25, 2})
	if len(vec) != 3 || vec[0] != 0.5 || vec[1] != -1.25 || vec[2] != 2 {
		t.Errorf("conversion wrong: %v", vec)
	}
}
