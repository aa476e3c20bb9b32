package rag

import (
	"strings"
)

// Default chunking parameters for the NR reference corpus.
const (
	DEFAULT_CHUNK_SIZE      = 500
	DEFAULT_CHUNK_OVERLAP   = 50
	DEFAULT_MAX_CHUNK_CHARS = 4000
)

// separators tried in order, from coarse to fine. The empty separator
// means a hard cut by rune count.
var separators = []string{"\n\n", "\n", " ", ""}

/*
 * Chunker splits extracted PDF text into overlapping chunks for embedding.
 * Recursive character splitting: try to break on paragraph boundaries first,
 * then lines, then words, and only cut inside a word as a last resort.
 */
type Chunker struct {
	ChunkSize     int `json:"chunk_size"`      // target chunk size in chars
	ChunkOverlap  int `json:"chunk_overlap"`   // chars carried over between chunks
	MaxChunkChars int `json:"max_chunk_chars"` // hard cap per chunk
}

func NewChunker(size, overlap, maxchars int) *Chunker {
	if size <= 0 {
		size = DEFAULT_CHUNK_SIZE
	}
	if overlap < 0 || overlap >= size {
		overlap = DEFAULT_CHUNK_OVERLAP
	}
	if maxchars < size {
		maxchars = DEFAULT_MAX_CHUNK_CHARS
	}
	return &Chunker{ChunkSize: size, ChunkOverlap: overlap, MaxChunkChars: maxchars}
}

// Split text into chunks. Whitespace-only input yields no chunks,
// text shorter than the chunk size yields exactly one chunk.
func (p *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	parts := p.split(text, separators)

	chunks := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if runeLen(part) > p.MaxChunkChars {
			part = truncateRunes(part, p.MaxChunkChars)
		}
		chunks = append(chunks, part)
	}
	return chunks
}

func (p *Chunker) split(text string, seps []string) []string {
	// pick the first separator present in the text
	sep := ""
	rest := []string{}
	for i, s := range seps {
		if s == "" {
			sep = s
			break
		}
		if strings.Contains(text, s) {
			sep = s
			rest = seps[i+1:]
			break
		}
	}

	var parts []string
	if sep == "" {
		parts = cutRunes(text, p.ChunkSize)
	} else {
		parts = strings.Split(text, sep)
	}

	var final, pending []string
	for _, part := range parts {
		if runeLen(part) <= p.ChunkSize {
			pending = append(pending, part)
			continue
		}
		// part too big for one chunk, flush what we have and recurse
		final = append(final, p.merge(pending, sep)...)
		pending = nil
		final = append(final, p.split(part, rest)...)
	}
	final = append(final, p.merge(pending, sep)...)

	return final
}

// merge joins small parts into chunks up to ChunkSize, keeping a tail of
// at most ChunkOverlap chars as the start of the next chunk.
func (p *Chunker) merge(parts []string, sep string) []string {
	var chunks []string
	var cur []string
	curlen := 0
	seplen := runeLen(sep)

	join := func() {
		chunk := strings.TrimSpace(strings.Join(cur, sep))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, part := range parts {
		plen := runeLen(part)
		if plen == 0 {
			continue
		}

		extra := plen
		if len(cur) > 0 {
			extra += seplen
		}
		if curlen+extra > p.ChunkSize && len(cur) > 0 {
			join()
			// drop head parts until the kept tail fits the overlap budget
			for curlen > p.ChunkOverlap ||
				(curlen+plen+seplen > p.ChunkSize && curlen > 0) {
				curlen -= runeLen(cur[0])
				if len(cur) > 1 {
					curlen -= seplen
				}
				cur = cur[1:]
				if len(cur) == 0 {
					break
				}
			}
		}

		if len(cur) > 0 {
			curlen += seplen
		}
		cur = append(cur, part)
		curlen += plen
	}
	if len(cur) > 0 {
		join()
	}

	return chunks
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// cutRunes hard-splits s into pieces of at most n runes.
func cutRunes(s string, n int) []string {
	r := []rune(s)
	var parts []string
	for len(r) > n {
		parts = append(parts, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
