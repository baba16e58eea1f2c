package types

import (
	"fmt"
	"text2phenotype.com/compound/utils"
)

type Hashable interface {
	GetHashCode() uint64
}

// GetHashCode identifies a profile by its analysis settings; the name and
// file location do not take part.
func (cfg Configuration) GetHashCode() uint64 {
	return utils.HashString(fmt.Sprintf("%d|%d|%s|%s|%s|%s",
		cfg.Workers, cfg.Top, cfg.Source.Kind, cfg.Source.Path, cfg.Source.URL, cfg.Source.Key))
}
