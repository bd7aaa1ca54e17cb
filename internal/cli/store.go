package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/petrolc/internal/ir"
	"github.com/roach88/petrolc/internal/store"
)

// StoreOptions holds flags for the store commands.
type StoreOptions struct {
	*RootOptions
	DB string // database path, overrides the config
}

// StorePutResult lists what store put wrote.
type StorePutResult struct {
	File   string      `json:"file"`
	Values []HashEntry `json:"values"`
	Stats  store.Stats `json:"stats"`
}

// WriteText implements TextWriter.
func (r StorePutResult) WriteText(w io.Writer) {
	for _, e := range r.Values {
		fmt.Fprintf(w, "%s  %s\n", e.Hash, e.Name)
	}
	fmt.Fprintf(w, "✓ Stored %d value(s); store holds %d node(s)\n", len(r.Values), r.Stats.Nodes)
}

// StoreGetResult is a value read back from the store.
type StoreGetResult struct {
	Hash  ir.Hash `json:"hash"`
	Tag   string  `json:"tag"`
	Value string  `json:"value"`
}

// WriteText implements TextWriter.
func (r StoreGetResult) WriteText(w io.Writer) {
	fmt.Fprintln(w, r.Value)
}

// NewStoreCommand creates the store command group.
func NewStoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Read and write the content-addressed value store",
		Long: `Commands for the SQLite value store. The database defaults to the
store.database setting of petrolc.toml (petrolc.db if there is none).`,
	}

	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "database path (overrides config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "put <file>",
		Short: "Store every value of a document",
		Long: `Decode a value document and store each top-level value under its
structural hash. Values already in the store are not written again.

Examples:
  petrolc store put values.yaml
  petrolc store put values.cue --db ./build/values.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStorePut(opts, args[0], cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <hash>",
		Short: "Print a stored value",
		Long: `Rebuild the value stored under a hash and print it. The value is
verified against the hash as it is rebuilt.

Examples:
  petrolc store get 3F1C...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStoreGet(opts, args[0], cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "stats",
		Short:         "Count stored nodes, units and routines",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStoreStats(opts, cmd)
		},
	})

	return cmd
}

func (o *StoreOptions) open(f *OutputFormatter) (*store.Store, error) {
	path := o.DB
	if path == "" {
		path = o.config().Store.Database
	}
	f.VerboseLog("Opening store %s", path)

	st, err := store.Open(path)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	return st, nil
}

func runStorePut(opts *StoreOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	p := ir.NewPool()

	doc, err := loadDocument(f, p, path)
	if err != nil {
		return err
	}

	st, err := opts.open(f)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	result := StorePutResult{File: path, Values: make([]HashEntry, 0, len(doc.Values))}
	for _, n := range doc.Values {
		h, err := st.PutValue(ctx, n.Value)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("storing %s: %v", n.Name, err), nil)
		}
		result.Values = append(result.Values, HashEntry{Name: n.Name, Hash: h})
	}

	result.Stats, err = st.Stats(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	return f.Success(result)
}

func runStoreGet(opts *StoreOptions, arg string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	h, err := ir.ParseHash(arg)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidHash, err.Error(), nil)
	}

	st, err := opts.open(f)
	if err != nil {
		return err
	}
	defer st.Close()

	v, err := st.GetValue(cmd.Context(), ir.NewPool(), h)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return f.Fail(ExitCommandError, ErrCodeNoValue, fmt.Sprintf("no value with hash %s", h), nil)
	case errors.Is(err, store.ErrCorrupt):
		return f.Fail(ExitCommandError, ErrCodeCorrupt, err.Error(), nil)
	case err != nil:
		return f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}

	return f.Success(StoreGetResult{Hash: h, Tag: v.Tag().String(), Value: v.String()})
}

func runStoreStats(opts *StoreOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := opts.open(f)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(cmd.Context())
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}

	if f.Format == "json" {
		return f.Success(stats)
	}
	return f.Success(fmt.Sprintf("%d node(s), %d unit(s), %d routine(s)", stats.Nodes, stats.Units, stats.Routines))
}
