package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/petrolc/internal/config"
	"github.com/roach88/petrolc/internal/decode"
	"github.com/roach88/petrolc/internal/ir"
)

// config returns the loaded configuration, or the defaults when the
// command runs without the root command's setup.
func (o *RootOptions) config() *config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return o.Config
}

// loadDocument decodes a value document into p, reporting failures
// through the formatter.
func loadDocument(f *OutputFormatter, p *ir.Pool, path string) (*decode.Document, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("file not found: %s", path), nil)
	}

	doc, err := decode.DecodeFile(p, path)
	if err != nil {
		var de *decode.DecodeError
		if errors.As(err, &de) {
			return nil, f.Fail(ExitCommandError, ErrCodeDecode, de.Error(), map[string]any{
				"code":   string(de.Code),
				"file":   de.File,
				"line":   de.Pos.Line,
				"column": de.Pos.Column,
			})
		}
		return nil, f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	f.VerboseLog("Decoded %d value(s) from %s", len(doc.Values), path)
	return doc, nil
}
