package source

import (
	"context"
	"os"
)

type File struct {
	Path string
}

func (f *File) Load(ctx context.Context) ([]string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadWords(file)
}

func (f *File) Describe() string {
	return "file:" + f.Path
}
