package rag

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"github.com/philippgille/chromem-go"
)

/*
 * Embedding use ollama api to create embeddings
 * Ollama url like http://localhost:11434
 * Use embedding model such as nomic-embed-text or tazarov/all-minilm-l6-v2-f32
 */
type Embedding struct {
	OllamaUrl string `json:"ollama_url"`
	Model     string `json:"model"`
}

// embedding text to embedding vector with model of ollama
func (p *Embedding) Embed(ctx context.Context, text string) ([]float64, error) {
	httpclient := &http.Client{}
	u, err := url.Parse(p.OllamaUrl)
	if err != nil {
		return nil, err
	}
	cli := api.NewClient(u, httpclient)

	req := &api.EmbeddingRequest{
		Model:  p.Model,
		Prompt: text,
	}
	resp, err := cli.Embeddings(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Embedding, nil
}

// Func adapts Embed to the vector store callback signature.
func (p *Embedding) Func() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vec, err := p.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		return Floats64To32(vec), nil
	}
}

func Floats64To32(floats []float64) []float32 {
	vec := make([]float32, len(floats))
	for i, val := range floats {
		vec[i] = float32(val)
	}
	return vec
}
