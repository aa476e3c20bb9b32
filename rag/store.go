package rag

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"
	log "github.com/sirupsen/logrus"
)

const COLLECTION_NAME = "apr-corpus"

var ErrEmptyCorpus = errors.New("corpus is empty, reload it first")

/*
 * VectorStore keeps the embedded corpus chunks in chromem-go. The DB is
 * embedded, no client-server separation. With a Path it persists across
 * restarts, without one it is memory only (tests).
 */
type VectorStore struct {
	Path string `json:"path"`

	db        *chromem.DB
	embedFunc chromem.EmbeddingFunc

	// mu guards collection: Rebuild swaps it while queries read it
	mu         sync.RWMutex
	collection *chromem.Collection
}

func (p *VectorStore) Open(embedFunc chromem.EmbeddingFunc) error {
	p.embedFunc = embedFunc

	if p.Path == "" {
		p.db = chromem.NewDB()
	} else {
		db, err := chromem.NewPersistentDB(p.Path, false)
		if err != nil {
			log.Errorf("open vector db '%s' failed: %s", p.Path, err)
			return err
		}
		p.db = db
	}

	collection, err := p.db.GetOrCreateCollection(COLLECTION_NAME, nil, embedFunc)
	if err != nil {
		return err
	}
	p.collection = collection
	return nil
}

// Rebuild drops the collection and indexes the given chunks. Embeddings
// run concurrently, one worker per CPU. Queries block until the rebuild
// is done, the old index never answers halfway.
func (p *VectorStore) Rebuild(ctx context.Context, chunks []Chunk) error {
	if p.db == nil {
		return errors.New("vector store is not open")
	}
	if len(chunks) == 0 {
		return ErrEmptyCorpus
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.db.DeleteCollection(COLLECTION_NAME); err != nil {
		return err
	}
	collection, err := p.db.CreateCollection(COLLECTION_NAME, nil, p.embedFunc)
	if err != nil {
		return err
	}
	p.collection = collection

	docs := make([]chromem.Document, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, chromem.Document{
			ID:       fmt.Sprintf("%s#%04d", chunk.Source, i),
			Metadata: map[string]string{"source": chunk.Source},
			Content:  chunk.Content,
		})
	}
	return p.collection.AddDocuments(ctx, docs, runtime.NumCPU())
}

// Query returns the topk most similar chunks for the query text.
// topk is capped at the collection size.
func (p *VectorStore) Query(ctx context.Context, query string, topk int) ([]chromem.Result, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.collection == nil {
		return nil, ErrEmptyCorpus
	}
	count := p.collection.Count()
	if count == 0 {
		return nil, ErrEmptyCorpus
	}
	if topk > count {
		topk = count
	}
	return p.collection.Query(ctx, query, topk, nil, nil)
}

func (p *VectorStore) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.collection == nil {
		return 0
	}
	return p.collection.Count()
}
