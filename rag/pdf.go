package rag

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Extract the plain text of a whole PDF. A scanned PDF without a text
// layer yields an empty string and no error, the caller decides to skip it.
func ExtractPdfText(data []byte) (text string, err error) {
	// the pdf parser panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf open failed: %w", err)
	}

	rd, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf text extraction failed: %w", err)
	}

	var buf bytes.Buffer
	if _, err = buf.ReadFrom(rd); err != nil {
		return "", err
	}
	return buf.String(), nil
}
