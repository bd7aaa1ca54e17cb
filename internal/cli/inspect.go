package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/petrolc/internal/ir"
	"github.com/roach88/petrolc/internal/parse"
)

// ValueInfo describes one named value.
type ValueInfo struct {
	Name     string      `json:"name"`
	Position ir.Position `json:"position"`
	Tag      string      `json:"tag"`
	Value    string      `json:"value"`
	Atom     bool        `json:"atom"`
	Cons     bool        `json:"cons"`
	Nil      bool        `json:"nil"`
	List     bool        `json:"list"`

	// Length is the number of elements of a proper list, or -1.
	Length int `json:"length"`
}

// InspectResult describes every value of a document.
type InspectResult struct {
	File   string       `json:"file"`
	Values []ValueInfo  `json:"values"`
	Pool   ir.PoolStats `json:"pool"`
}

// WriteText implements TextWriter.
func (r InspectResult) WriteText(w io.Writer) {
	for _, v := range r.Values {
		fmt.Fprintf(w, "%s @%s [%s] %s\n", v.Name, v.Position, v.Tag, v.Value)
		switch {
		case v.List:
			fmt.Fprintf(w, "  proper list, %d element(s)\n", v.Length)
		case v.Cons:
			fmt.Fprintln(w, "  improper list")
		}
	}
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the values of a document and their shapes",
		Long: `Decode a YAML or CUE value document and describe each top-level value:
its source position, tag, rendering, and whether it is an atom, a cons,
nil or a proper list.

Examples:
  petrolc inspect values.yaml
  petrolc inspect values.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	p := ir.NewPool()

	doc, err := loadDocument(f, p, path)
	if err != nil {
		return err
	}

	result := InspectResult{File: path, Values: make([]ValueInfo, 0, len(doc.Values))}
	for _, n := range doc.Values {
		result.Values = append(result.Values, describe(n.Name, n.Value))
	}
	result.Pool = p.Stats()
	return f.Success(result)
}

func describe(name string, v *ir.Value) ValueInfo {
	info := ValueInfo{
		Name:     name,
		Position: v.Position(),
		Tag:      v.Tag().String(),
		Value:    v.String(),
		Atom:     v.IsAtom(),
		Cons:     v.IsCons(),
		Nil:      v.IsNil(),
		Length:   -1,
	}
	if elems, ok := parse.List().Parse(v); ok {
		info.List = true
		info.Length = len(elems)
	}
	return info
}
