// Package source loads the word list: one word per line, from a reader, a
// local file, a URL or an S3 object.
package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"io"
	"strings"
	"text2phenotype.com/compound/types"
)

const maxLineSize = 1024 * 1024

type Source interface {
	Load(ctx context.Context) ([]string, error)
	Describe() string
}

// Downloader fetches an object by key; *s3client.Client implements it.
type Downloader interface {
	Download(key string) ([]byte, error)
}

// ReadWords returns the lines of r with surrounding whitespace removed.
// Blank lines are dropped and a leading byte order mark is honored.
func ReadWords(r io.Reader) ([]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var words []string
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if len(word) == 0 {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// FromConfig picks the source described by cfg. s3 may be nil unless the
// source kind is types.SourceS3.
func FromConfig(cfg types.SourceConfig, s3 Downloader) (Source, error) {
	switch cfg.Kind {
	case types.SourceFile:
		return &File{Path: cfg.Path}, nil
	case types.SourceURL:
		return &URL{Address: cfg.URL}, nil
	case types.SourceS3:
		if s3 == nil {
			return nil, errors.New("s3 source requested without an s3 client")
		}
		return &S3{Key: cfg.Key, Client: s3}, nil
	}
	return nil, fmt.Errorf("%w: %q", types.ErrUnknownSource, cfg.Kind)
}
