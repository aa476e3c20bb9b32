package rag

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DEFAULT_TOP_K     = 3
	CONTEXT_MAX_CHARS = 3000
	CONTEXT_SEPARATOR = "\n---\n"
	TRUNCATED_MARKER  = "... [texto truncado]"
)

var ErrReloadRunning = errors.New("a corpus reload is already running")

// Status of the loaded corpus, served on /corpus/status.
type CorpusStatus struct {
	Loaded   bool      `json:"loaded"`
	Sources  []string  `json:"sources"`
	Chunks   int       `json:"chunks"`
	LoadedAt time.Time `json:"loaded_at"`
}

/*
 * Pipeline ties the RAG steps together: corpus loading, vector indexing,
 * retrieval and per-chunk summarisation. One instance per process,
 * Reload and RetrieveContext may be called from concurrent requests.
 */
type Pipeline struct {
	Loader  *CorpusLoader
	Store   *VectorStore
	Chunker *Chunker
	Llm     *LLM

	TopK            int
	ContextMaxChars int

	reloading atomic.Bool
	mu        sync.RWMutex
	status    CorpusStatus
}

// Reload rebuilds the vector index from the bucket: list, download,
// extract, chunk, embed. Expensive, runs minutes on a big corpus.
// Only one reload runs at a time, a second caller gets ErrReloadRunning.
func (p *Pipeline) Reload(ctx context.Context) error {
	if !p.reloading.CompareAndSwap(false, true) {
		return ErrReloadRunning
	}
	defer p.reloading.Store(false)

	begin := time.Now()

	chunks, err := p.Loader.LoadChunks(ctx, p.Chunker)
	if err != nil {
		return err
	}

	if err = p.Store.Rebuild(ctx, chunks); err != nil {
		log.Errorf("vector index rebuild failed: %s", err)
		return err
	}

	sources := map[string]bool{}
	for _, chunk := range chunks {
		sources[chunk.Source] = true
	}
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	p.mu.Lock()
	p.status = CorpusStatus{
		Loaded:   true,
		Sources:  names,
		Chunks:   len(chunks),
		LoadedAt: time.Now(),
	}
	p.mu.Unlock()

	log.Infof("corpus loaded: %d chunks from %d sources in %v",
		len(chunks), len(names), time.Since(begin))
	return nil
}

func (p *Pipeline) Status() CorpusStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

func (p *Pipeline) Loaded() bool {
	return p.Status().Loaded
}

// RetrieveContext embeds the query, fetches the topk chunks and condenses
// each one with the model. The joined context is capped so the final
// prompt stays small.
func (p *Pipeline) RetrieveContext(ctx context.Context, query string) (string, error) {
	topk := p.TopK
	if topk <= 0 {
		topk = DEFAULT_TOP_K
	}

	results, err := p.Store.Query(ctx, query, topk)
	if err != nil {
		return "", err
	}

	summaries := make([]string, 0, len(results))
	for i, result := range results {
		log.Debugf("retrieved %d/%d from '%s', similarity %.4f",
			i+1, len(results), result.Metadata["source"], result.Similarity)

		summary, err := p.Llm.Summarize(ctx, result.Content)
		if err != nil {
			return "", err
		}
		summaries = append(summaries, summary)
	}

	contexto := strings.Join(summaries, CONTEXT_SEPARATOR)
	maxchars := p.ContextMaxChars
	if maxchars <= 0 {
		maxchars = CONTEXT_MAX_CHARS
	}
	if runeLen(contexto) > maxchars {
		contexto = truncateRunes(contexto, maxchars) + TRUNCATED_MARKER
	}
	return contexto, nil
}
