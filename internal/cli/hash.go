package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/petrolc/internal/ir"
)

// HashEntry is the hash of one named value.
type HashEntry struct {
	Name string  `json:"name"`
	Hash ir.Hash `json:"hash"`
}

// HashResult lists the hashes of a document's values.
type HashResult struct {
	File   string      `json:"file"`
	Values []HashEntry `json:"values"`
}

// WriteText implements TextWriter.
func (r HashResult) WriteText(w io.Writer) {
	for _, e := range r.Values {
		fmt.Fprintf(w, "%s  %s\n", e.Hash, e.Name)
	}
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash <file>",
		Short: "Print the structural hash of every value in a document",
		Long: `Decode a YAML or CUE value document and print the structural hash of
each top-level value. Positions do not affect hashes, so the same value
hashes the same in any file.

Examples:
  petrolc hash values.yaml
  petrolc hash values.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(rootOpts, args[0], cmd)
		},
	}
}

func runHash(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	p := ir.NewPool()

	doc, err := loadDocument(f, p, path)
	if err != nil {
		return err
	}

	result := HashResult{File: path, Values: make([]HashEntry, 0, len(doc.Values))}
	for _, n := range doc.Values {
		result.Values = append(result.Values, HashEntry{Name: n.Name, Hash: n.Value.Hash()})
	}
	return f.Success(result)
}
