package decode

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/petrolc/internal/ir"
)

// DecodeYAML decodes a YAML value document.
func DecodeYAML(p *ir.Pool, file string, data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &DecodeError{Code: ErrCodeSyntax, Message: err.Error(), File: file}
	}
	if root.Kind == 0 || (root.Kind == yaml.DocumentNode && len(root.Content) == 0) {
		return newDocument(file), nil
	}
	return DecodeYAMLNode(p, file, &root)
}

// DecodeYAMLNode decodes an already parsed mapping of names to values. It
// lets other YAML formats embed value documents.
func DecodeYAMLNode(p *ir.Pool, file string, node *yaml.Node) (*Document, error) {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	doc := newDocument(file)
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return doc, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, &DecodeError{Code: ErrCodeShape, Message: "top level must map names to values", File: file, Pos: yamlPos(node)}
	}

	d := &yamlDecoder{
		pool:   p,
		file:   file,
		memo:   make(map[*yaml.Node]*ir.Value),
		active: make(map[*yaml.Node]bool),
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		v, err := d.decode(val)
		if err != nil {
			return nil, err
		}
		if err := doc.add(key.Value, v, yamlPos(key)); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

type yamlDecoder struct {
	pool *ir.Pool
	file string

	// memo makes every alias of an anchor decode to the same node.
	memo   map[*yaml.Node]*ir.Value
	active map[*yaml.Node]bool
}

func yamlPos(n *yaml.Node) ir.Position {
	return ir.Position{Line: uint32(n.Line), Column: uint32(n.Column)}
}

func (d *yamlDecoder) errorf(n *yaml.Node, code ErrorCode, format string, args ...any) error {
	return &DecodeError{Code: code, Message: fmt.Sprintf(format, args...), File: d.file, Pos: yamlPos(n)}
}

func (d *yamlDecoder) decode(n *yaml.Node) (*ir.Value, error) {
	if v, ok := d.memo[n]; ok {
		return v, nil
	}
	if d.active[n] {
		return nil, d.errorf(n, ErrCodeShape, "value contains itself")
	}
	d.active[n] = true
	defer delete(d.active, n)

	var v *ir.Value
	var err error
	switch n.Kind {
	case yaml.AliasNode:
		v, err = d.decode(n.Alias)
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			v = nilAt(d.pool, yamlPos(n))
		} else {
			v = d.pool.AtomAt(yamlPos(n), atomName(n.Value))
		}
	case yaml.SequenceNode:
		var elems []*ir.Value
		elems, err = d.decodeAll(n.Content)
		if err == nil {
			v = list(d.pool, yamlPos(n), elems)
		}
	case yaml.MappingNode:
		v, err = d.decodeMapping(n)
	default:
		err = d.errorf(n, ErrCodeShape, "unexpected YAML node")
	}
	if err != nil {
		return nil, err
	}

	d.memo[n] = v
	return v, nil
}

func (d *yamlDecoder) decodeAll(nodes []*yaml.Node) ([]*ir.Value, error) {
	out := make([]*ir.Value, 0, len(nodes))
	for _, n := range nodes {
		v, err := d.decode(n)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

var mappingKeys = map[string]bool{
	"tag":      true,
	"children": true,
	"bytes":    true,
	"cons":     true,
}

func (d *yamlDecoder) decodeMapping(n *yaml.Node) (*ir.Value, error) {
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if !mappingKeys[key.Value] {
			return nil, d.errorf(key, ErrCodeShape, "unknown key %q (want tag, children, bytes or cons)", key.Value)
		}
		fields[key.Value] = resolveAlias(n.Content[i+1])
	}

	if cell, ok := fields["cons"]; ok {
		if len(fields) != 1 {
			return nil, d.errorf(n, ErrCodeShape, "cons cannot be combined with other keys")
		}
		if cell.Kind != yaml.SequenceNode || len(cell.Content) != 2 {
			return nil, d.errorf(cell, ErrCodeShape, "cons needs exactly [head, tail]")
		}
		parts, err := d.decodeAll(cell.Content)
		if err != nil {
			return nil, err
		}
		return d.pool.NewValue(yamlPos(n), ir.TagCons, parts, nil), nil
	}

	tagNode, ok := fields["tag"]
	if !ok {
		return nil, d.errorf(n, ErrCodeShape, "mapping needs a tag or cons key")
	}
	if tagNode.Kind != yaml.ScalarNode {
		return nil, d.errorf(tagNode, ErrCodeTag, "tag must be a string")
	}
	tag, err := ir.ParseTag(tagNode.Value)
	if err != nil {
		return nil, d.errorf(tagNode, ErrCodeTag, "%v", err)
	}

	var children []*ir.Value
	if c, ok := fields["children"]; ok {
		if c.Kind != yaml.SequenceNode {
			return nil, d.errorf(c, ErrCodeShape, "children must be a sequence")
		}
		children, err = d.decodeAll(c.Content)
		if err != nil {
			return nil, err
		}
	}

	var data []byte
	if b, ok := fields["bytes"]; ok {
		if b.Kind != yaml.ScalarNode {
			return nil, d.errorf(b, ErrCodeShape, "bytes must be a string")
		}
		data = []byte(b.Value)
	}

	return d.pool.NewValue(yamlPos(n), tag, children, data), nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
