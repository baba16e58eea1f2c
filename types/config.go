package types

import (
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"io/ioutil"
	"path"
	"strings"
)

const (
	SourceFile = "file"
	SourceURL  = "url"
	SourceS3   = "s3"

	// used when no source is configured
	DefaultWordListURL = "https://gist.githubusercontent.com/bobbae/4ca309a1857158d5766d4ede4235cae0/raw/77d5e62835c80d30b87ab7f4a84a63a4a64f7cb2/words.txt"

	defaultTop     = 2
	defaultWorkers = 1
)

var ErrUnknownSource = errors.New("unknown word source kind")

type SourceConfig struct {
	Kind string `yaml:"kind" json:"kind"`
	Path string `yaml:"path" json:"path"`
	URL  string `yaml:"url" json:"url"`
	Key  string `yaml:"key" json:"key"`
}

type Configuration struct {
	Name     string       `yaml:"name" json:"name"`
	FilePath string       `yaml:"-" json:"file_path"`
	Workers  int          `yaml:"workers" json:"workers"`
	Top      int          `yaml:"top" json:"top"`
	Source   SourceConfig `yaml:"source" json:"source"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Name:    "default",
		Workers: defaultWorkers,
		Top:     defaultTop,
		Source: SourceConfig{
			Kind: SourceURL,
			URL:  DefaultWordListURL,
		},
	}
}

// LoadConfiguration reads a YAML profile on top of DefaultConfiguration.
// A profile without a name is named after its file.
func LoadConfiguration(filePath string) (Configuration, error) {
	cfg := DefaultConfiguration()
	cfg.Name = ""
	cfg.FilePath = filePath

	buf, err := ioutil.ReadFile(filePath)
	if err != nil {
		return Configuration{}, err
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return Configuration{}, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	}
	if err := cfg.Validate(); err != nil {
		return Configuration{}, fmt.Errorf("invalid configuration %s: %w", filePath, err)
	}
	return cfg, nil
}

func (cfg Configuration) Validate() error {
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.Top < 0 {
		return fmt.Errorf("top must not be negative, got %d", cfg.Top)
	}
	switch cfg.Source.Kind {
	case SourceFile:
		if cfg.Source.Path == "" {
			return errors.New("file source needs a path")
		}
	case SourceURL:
		if cfg.Source.URL == "" {
			return errors.New("url source needs a url")
		}
	case SourceS3:
		if cfg.Source.Key == "" {
			return errors.New("s3 source needs a key")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source.Kind)
	}
	return nil
}
