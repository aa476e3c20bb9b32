package rag

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
)

func TestChunkerShortText(t *testing.T) {
	chunker := NewChunker(500, 50, 4000)

	chunks := chunker.Split("Uso obrigatório de capacete na obra.")
	if len(chunks) != 1 {
		t.Fatalf("short text should yield exactly 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "Uso obrigatório de capacete na obra." {
		t.Errorf("chunk changed the text: %q", chunks[0])
	}
}

func TestChunkerEmptyText(t *testing.T) {
	chunker := NewChunker(500, 50, 4000)

	if chunks := chunker.Split(""); chunks != nil {
		t.Errorf("empty text should yield no chunks, got %d", len(chunks))
	}
	if chunks := chunker.Split("  \n\n \t "); chunks != nil {
		t.Errorf("whitespace text should yield no chunks, got %d", len(chunks))
	}
}

func TestChunkerSizes(t *testing.T) {
	gofakeit.Seed(11)
	text := gofakeit.Paragraph(10, 8, 12, "\n\n")

	chunker := NewChunker(500, 50, 4000)
	chunks := chunker.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks from %d chars, got %d", len(text), len(chunks))
	}

	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			t.Errorf("chunk %d is empty", i)
		}
		if runeLen(chunk) > chunker.ChunkSize {
			t.Errorf("chunk %d has %d chars, limit is %d", i, runeLen(chunk), chunker.ChunkSize)
		}
	}
	t.Logf("%d chars -> %d chunks", len(text), len(chunks))
}

func TestChunkerOverlap(t *testing.T) {
	// one long line of words, forces word-level merging
	gofakeit.Seed(22)
	words := strings.Fields(gofakeit.Paragraph(4, 10, 12, " "))
	text := strings.Join(words, " ")

	chunker := NewChunker(200, 40, 4000)
	chunks := chunker.Split(text)
	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	// the tail of a chunk reappears at the head of the next one
	for i := 1; i < len(chunks); i++ {
		head := strings.Fields(chunks[i])[0]
		if !strings.Contains(chunks[i-1], head) {
			t.Errorf("chunk %d does not overlap chunk %d: head word %q", i, i-1, head)
		}
	}
}

func TestChunkerNoSeparators(t *testing.T) {
	// a 1200-rune "word" can only be hard cut
	text := strings.Repeat("ç", 1200)

	chunker := NewChunker(500, 50, 4000)
	chunks := chunker.Split(text)
	if len(chunks) != 3 {
		t.Fatalf("1200 runes at size 500 should be 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if runeLen(chunk) > 500 {
			t.Errorf("chunk %d has %d runes", i, runeLen(chunk))
		}
	}
}

func TestChunkerDefaults(t *testing.T) {
	chunker := NewChunker(0, -1, 0)
	if chunker.ChunkSize != DEFAULT_CHUNK_SIZE {
		t.Errorf("default chunk size = %d", chunker.ChunkSize)
	}
	if chunker.ChunkOverlap != DEFAULT_CHUNK_OVERLAP {
		t.Errorf("default overlap = %d", chunker.ChunkOverlap)
	}
	if chunker.MaxChunkChars != DEFAULT_MAX_CHUNK_CHARS {
		t.Errorf("default max chars = %d", chunker.MaxChunkChars)
	}

	// overlap must stay below the chunk size
	chunker = NewChunker(100, 100, 4000)
	if chunker.ChunkOverlap >= chunker.ChunkSize {
		t.Errorf("overlap %d not below size %d", chunker.ChunkOverlap, chunker.ChunkSize)
	}
}

func TestTruncateRunes(t *testing.T) {
	if s := truncateRunes("proteção", 7); s != "proteçã" {
		t.Errorf("rune truncation broke a multibyte char: %q", s)
	}
	if s := truncateRunes("abc", 10); s != "abc" {
		t.Errorf("truncate below limit changed the text: %q", s)
	}
}
