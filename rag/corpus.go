package rag

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// Chunk is one embedded unit of the reference corpus, with the bucket
// object it came from.
type Chunk struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

/*
 * CorpusLoader reads the reference corpus (NR safety norms as PDF files)
 * from a S3 compatible bucket and turns it into text chunks.
 */
type CorpusLoader struct {
	Addr     string `json:"addr"`
	User     string `json:"user"`
	Password string `json:"-"`
	Ssl      bool   `json:"ssl"`
	Bucket   string `json:"bucket"`
	Prefix   string `json:"prefix"`
	Timeout  uint   `json:"timeout"` // seconds, per object download

	cli *minio.Client
}

func (p *CorpusLoader) Open() error {
	if p.cli != nil {
		return nil
	}
	cli, err := minio.New(p.Addr, &minio.Options{
		Creds:  credentials.NewStaticV4(p.User, p.Password, ""),
		Secure: p.Ssl,
	})
	if err != nil {
		log.Errorf("minio client to '%s' failed: %s", p.Addr, err)
		return err
	}
	p.cli = cli
	return nil
}

// LoadChunks lists the bucket, downloads every .pdf object, extracts its
// text and splits it. Objects that fail are skipped with a warning, only
// an empty result is an error.
func (p *CorpusLoader) LoadChunks(ctx context.Context, chunker *Chunker) ([]Chunk, error) {
	if err := p.Open(); err != nil {
		return nil, err
	}

	listctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objectCh := p.cli.ListObjects(listctx, p.Bucket, minio.ListObjectsOptions{
		Prefix:    p.Prefix,
		Recursive: true,
	})

	var chunks []Chunk
	pdfs := 0
	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("list bucket '%s' failed: %w", p.Bucket, object.Err)
		}
		if !strings.HasSuffix(strings.ToLower(object.Key), ".pdf") {
			log.Tracef("skip non-pdf object '%s'", object.Key)
			continue
		}
		pdfs++

		text, err := p.extractObject(ctx, object.Key)
		if err != nil {
			log.Warnf("object '%s' skipped: %s", object.Key, err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			log.Warnf("object '%s' has no extractable text, skipped", object.Key)
			continue
		}

		n := 0
		for _, content := range chunker.Split(text) {
			chunks = append(chunks, Chunk{Source: object.Key, Content: content})
			n++
		}
		log.Infof("object '%s': %d chars -> %d chunks", object.Key, len(text), n)
	}

	if pdfs == 0 {
		return nil, fmt.Errorf("no pdf objects in bucket '%s' prefix '%s'", p.Bucket, p.Prefix)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no usable text in %d pdf objects of bucket '%s'", pdfs, p.Bucket)
	}
	return chunks, nil
}

func (p *CorpusLoader) extractObject(ctx context.Context, key string) (string, error) {
	getctx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		getctx, cancel = context.WithTimeout(ctx, time.Duration(p.Timeout)*time.Second)
		defer cancel()
	}

	fd, err := p.cli.GetObject(getctx, p.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", err
	}
	defer fd.Close()

	data, err := io.ReadAll(fd)
	if err != nil {
		return "", err
	}
	return ExtractPdfText(data)
}
