package rag

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	log "github.com/sirupsen/logrus"
)

// Caps taken over from the original pipeline: the model sees at most
// 2000 chars of a chunk and each summary keeps at most 500 chars.
const (
	SUMMARY_INPUT_CHARS = 2000
	SUMMARY_MAX_CHARS   = 500
	SUMMARY_MAX_WORDS   = 80
)

/*
 * LLM calls the Ollama generate API.
 * Ollama url like http://localhost:11434
 *
 *	curl -X POST http://localhost:11434/api/generate -d '{
 *	  "model": "llama3.1:latest",
 *	  "prompt": "..."
 *	}'
 */
type LLM struct {
	OllamaUrl string `json:"ollama_url"`
	Model     string `json:"model"`
	Timeout   uint   `json:"timeout"` // seconds, 0 means no deadline
}

// Generate returns the full model answer for one prompt.
func (p *LLM) Generate(ctx context.Context, prompt string) (string, error) {
	u, err := url.Parse(p.OllamaUrl)
	if err != nil {
		return "", err
	}
	cli := api.NewClient(u, &http.Client{})

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(p.Timeout)*time.Second)
		defer cancel()
	}

	stream := false
	req := &api.GenerateRequest{
		Model:  p.Model,
		Prompt: prompt,
		Stream: &stream,
	}

	var sb strings.Builder
	begin := time.Now()
	err = cli.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		log.Errorf("ollama generate with model '%s' failed: %s", p.Model, err)
		return "", err
	}

	answer := strings.TrimSpace(sb.String())
	if answer == "" {
		return "", fmt.Errorf("empty answer from model '%s'", p.Model)
	}
	log.Debugf("model '%s' answered %d chars in %v", p.Model, len(answer), time.Since(begin))
	return answer, nil
}

// Summarize condenses one retrieved chunk, preserving risks, control
// measures and NR citations.
func (p *LLM) Summarize(ctx context.Context, chunk string) (string, error) {
	chunk = truncateRunes(chunk, SUMMARY_INPUT_CHARS)
	prompt := fmt.Sprintf(
		"Resuma tecnicamente este trecho em até %d palavras, preservando riscos, medidas e citações de NRs:\n\n%s",
		SUMMARY_MAX_WORDS, chunk)

	summary, err := p.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return truncateRunes(strings.TrimSpace(summary), SUMMARY_MAX_CHARS), nil
}
