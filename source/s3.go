package source

import (
	"bytes"
	"context"
	"fmt"
)

type S3 struct {
	Key    string
	Client Downloader
}

func (s *S3) Load(ctx context.Context) ([]string, error) {
	data, err := s.Client.Download(s.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to download word list %s: %w", s.Key, err)
	}
	return ReadWords(bytes.NewReader(data))
}

func (s *S3) Describe() string {
	return "s3:" + s.Key
}
