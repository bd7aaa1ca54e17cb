package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/petrolc/internal/ir"
)

// PutValue stores v and every node reachable from it, and returns the hash
// of v. Nodes already present are left alone, so storing the same value
// twice (from any pool, at any position) is a no-op.
func (s *Store) PutValue(ctx context.Context, v *ir.Value) (ir.Hash, error) {
	if v == nil {
		return ir.Hash{}, fmt.Errorf("put value: nil value")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ir.Hash{}, fmt.Errorf("put value: begin: %w", err)
	}
	defer tx.Rollback()

	added, err := putNodes(ctx, tx, v)
	if err != nil {
		return ir.Hash{}, fmt.Errorf("put value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ir.Hash{}, fmt.Errorf("put value: commit: %w", err)
	}

	h := v.Hash()
	slog.Debug("value stored", "hash", h.String(), "new_nodes", added)
	return h, nil
}

// putNodes walks the graph below v without recursion and inserts every
// distinct node. It returns how many rows were new.
func putNodes(ctx context.Context, tx *sql.Tx, v *ir.Value) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (hash, tag, record)
		VALUES (?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	seen := make(map[ir.Hash]bool)
	stack := []*ir.Value{v}
	added := 0
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		h := n.Hash()
		if seen[h] {
			continue
		}
		seen[h] = true

		rec, err := encodeNode(n)
		if err != nil {
			return 0, fmt.Errorf("encode node %s: %w", h, err)
		}
		res, err := stmt.ExecContext(ctx, h[:], n.Tag().String(), rec)
		if err != nil {
			return 0, fmt.Errorf("insert node %s: %w", h, err)
		}
		if rows, err := res.RowsAffected(); err == nil {
			added += int(rows)
		}

		stack = append(stack, n.Children()...)
	}
	return added, nil
}

// HasValue reports whether a node with the given hash is stored.
func (s *Store) HasValue(ctx context.Context, h ir.Hash) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM nodes WHERE hash = ?`, h[:]).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("has value: %w", err)
	}
	return true, nil
}

// GetValue rebuilds the value stored under h in p. Shared subgraphs are
// rebuilt once. Rebuilt nodes have no position.
//
// Returns ErrNotFound if h is not stored and ErrCorrupt if a child is
// missing or a rebuilt node does not hash to the key it was stored under.
func (s *Store) GetValue(ctx context.Context, p *ir.Pool, h ir.Hash) (*ir.Value, error) {
	l := &loader{store: s, pool: p, built: make(map[ir.Hash]*ir.Value)}
	v, err := l.value(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("get value %s: %w", h, err)
	}
	return v, nil
}

// loader rebuilds stored nodes into a pool. It remembers what it has
// built so that repeated references share one node.
type loader struct {
	store *Store
	pool  *ir.Pool
	built map[ir.Hash]*ir.Value
}

func (l *loader) readNode(ctx context.Context, h ir.Hash) (nodeRecord, error) {
	var data []byte
	err := l.store.db.QueryRowContext(ctx, `SELECT record FROM nodes WHERE hash = ?`, h[:]).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nodeRecord{}, ErrNotFound
	}
	if err != nil {
		return nodeRecord{}, fmt.Errorf("read node: %w", err)
	}
	return decodeNode(data)
}

type frame struct {
	hash     ir.Hash
	rec      nodeRecord
	expanded bool
}

// value rebuilds one node bottom-up with an explicit stack.
func (l *loader) value(ctx context.Context, root ir.Hash) (*ir.Value, error) {
	if v, ok := l.built[root]; ok {
		return v, nil
	}

	rec, err := l.readNode(ctx, root)
	if err != nil {
		return nil, err
	}

	// inPath holds the nodes being expanded; meeting one again below
	// itself means the stored graph has a cycle.
	inPath := make(map[ir.Hash]bool)
	stack := []frame{{hash: root, rec: rec}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if _, ok := l.built[top.hash]; ok {
			stack = stack[:len(stack)-1]
			continue
		}

		if !top.expanded {
			if inPath[top.hash] {
				return nil, fmt.Errorf("%w: node %s contains itself", ErrCorrupt, top.hash)
			}
			inPath[top.hash] = true
			top.expanded = true

			children := top.rec.Children
			for i := len(children) - 1; i >= 0; i-- {
				ch, _ := hashFromBytes(children[i])
				if _, ok := l.built[ch]; ok {
					continue
				}
				crec, err := l.readNode(ctx, ch)
				if errors.Is(err, ErrNotFound) {
					return nil, fmt.Errorf("%w: missing child %s", ErrCorrupt, ch)
				}
				if err != nil {
					return nil, err
				}
				stack = append(stack, frame{hash: ch, rec: crec})
			}
			continue
		}

		f := *top
		stack = stack[:len(stack)-1]
		v, err := l.build(f)
		if err != nil {
			return nil, err
		}
		l.built[f.hash] = v
		delete(inPath, f.hash)
	}

	return l.built[root], nil
}

func (l *loader) build(f frame) (*ir.Value, error) {
	var tag ir.Tag
	copy(tag[:], f.rec.Tag)

	var v *ir.Value
	if tag == ir.TagNil && len(f.rec.Children) == 0 && len(f.rec.Bytes) == 0 {
		v = l.pool.Nil()
	} else {
		children := make([]*ir.Value, len(f.rec.Children))
		for i, c := range f.rec.Children {
			ch, _ := hashFromBytes(c)
			child, ok := l.built[ch]
			if !ok {
				return nil, fmt.Errorf("%w: child %s of %s not rebuilt", ErrCorrupt, ch, f.hash)
			}
			children[i] = child
		}
		v = l.pool.NewValue(ir.Position{}, tag, children, f.rec.Bytes)
	}

	if got := v.Hash(); got != f.hash {
		return nil, fmt.Errorf("%w: node stored as %s hashes to %s", ErrCorrupt, f.hash, got)
	}
	return v, nil
}
