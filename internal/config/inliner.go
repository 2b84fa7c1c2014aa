package config

import (
	"github.com/mvp-joe/tsinline/internal/inliner"
)

// ToInlinerOptions converts a Config to inliner.Options.
func (c *Config) ToInlinerOptions() inliner.Options {
	return inliner.Options{
		InsertIndex:           c.Inline.InsertIndex,
		KeepUnresolvedImports: c.Inline.KeepUnresolvedImports,
		Extensions:            c.Resolve.Extensions,
		IndexFiles:            c.Resolve.IndexFiles,
		IndentSize:            c.Format.IndentSize,
		NewLine:               c.Format.LineTerminator(),
	}
}
