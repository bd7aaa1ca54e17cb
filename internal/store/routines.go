package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/petrolc/internal/ir"
)

// BeginUnit registers a new compilation unit and returns its ID.
func (s *Store) BeginUnit(ctx context.Context) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("begin unit: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO units (id, seq)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM units))
	`, id.String())
	if err != nil {
		return "", fmt.Errorf("begin unit: %w", err)
	}

	slog.Debug("unit started", "unit", id.String())
	return id.String(), nil
}

// Units returns every unit ID in creation order.
func (s *Store) Units(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM units ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query units: %w", err)
	}
	defer rows.Close()

	units := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate units: %w", err)
	}
	return units, nil
}

// PutRoutine stores a finished routine in a unit, together with every value
// it quotes. The routine must validate. Returns ErrNotFound for an unknown
// unit and ErrDuplicate if the unit already has a routine of that name.
func (s *Store) PutRoutine(ctx context.Context, unit string, r ir.Routine) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("put routine: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put routine: begin: %w", err)
	}
	defer tx.Rollback()

	if err := checkUnit(ctx, tx, unit); err != nil {
		return fmt.Errorf("put routine %s: %w", r.Name, err)
	}

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM routines WHERE unit_id = ? AND name = ?`, unit, string(r.Name)).Scan(&exists)
	if err == nil {
		return fmt.Errorf("put routine %s: %w", r.Name, ErrDuplicate)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("put routine %s: %w", r.Name, err)
	}

	for _, q := range quotes(r.Body) {
		if _, err := putNodes(ctx, tx, q); err != nil {
			return fmt.Errorf("put routine %s: %w", r.Name, err)
		}
	}

	rec, err := encodeRoutine(r)
	if err != nil {
		return fmt.Errorf("put routine %s: %w", r.Name, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO routines (unit_id, name, seq, record)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM routines WHERE unit_id = ?), ?)
	`, unit, string(r.Name), unit, rec)
	if err != nil {
		return fmt.Errorf("put routine %s: %w", r.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put routine %s: commit: %w", r.Name, err)
	}

	slog.Debug("routine stored", "unit", unit, "routine", string(r.Name), "bindings", len(r.Body.Bindings))
	return nil
}

func checkUnit(ctx context.Context, tx *sql.Tx, unit string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM units WHERE id = ?`, unit).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("unit %s: %w", unit, ErrNotFound)
	}
	return err
}

// quotes lists the values an ANF body quotes, in order of appearance.
func quotes(a ir.Anf) []*ir.Value {
	var out []*ir.Value
	add := func(s ir.Simple) {
		if q, ok := s.(ir.Quote); ok && q.Value != nil {
			out = append(out, q.Value)
		}
	}
	for _, b := range a.Bindings {
		if call, ok := b.Expression.(ir.CallRoutine); ok {
			for _, arg := range call.Arguments {
				add(arg)
			}
		}
	}
	add(a.Result)
	return out
}

// Routines rebuilds every routine of a unit in p, in the order they were
// stored. Quoted values shared between routines are rebuilt once. Each
// routine is validated again after loading.
func (s *Store) Routines(ctx context.Context, p *ir.Pool, unit string) ([]ir.Routine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT record FROM routines
		WHERE unit_id = ?
		ORDER BY seq ASC
	`, unit)
	if err != nil {
		return nil, fmt.Errorf("query routines: %w", err)
	}

	var records [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan routine: %w", err)
		}
		records = append(records, data)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("iterate routines: %w", err)
	}

	if len(records) == 0 {
		var one int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM units WHERE id = ?`, unit).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("routines: unit %s: %w", unit, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("routines: %w", err)
		}
	}

	l := &loader{store: s, pool: p, built: make(map[ir.Hash]*ir.Value)}
	routines := make([]ir.Routine, 0, len(records))
	for _, data := range records {
		r, err := l.routine(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("routines: %w", err)
		}
		routines = append(routines, r)
	}
	return routines, nil
}

func (l *loader) routine(ctx context.Context, data []byte) (ir.Routine, error) {
	rec, err := decodeRoutine(data)
	if err != nil {
		return ir.Routine{}, err
	}

	params := make([]ir.Local, len(rec.Parameters))
	for i, p := range rec.Parameters {
		params[i] = ir.Local(p)
	}

	bindings := make([]ir.Binding, len(rec.Bindings))
	for i, b := range rec.Bindings {
		args := make([]ir.Simple, len(b.Arguments))
		for j, a := range b.Arguments {
			args[j], err = l.operand(ctx, a)
			if err != nil {
				return ir.Routine{}, fmt.Errorf("routine %s: binding %d: %w", rec.Name, i, err)
			}
		}
		bindings[i] = ir.Binding{
			Result:     ir.Local(b.Result),
			Expression: ir.CallRoutine{Routine: ir.Global(b.Routine), Arguments: l.pool.AllocArguments(args)},
		}
	}

	result, err := l.operand(ctx, rec.Result)
	if err != nil {
		return ir.Routine{}, fmt.Errorf("routine %s: result: %w", rec.Name, err)
	}

	r := ir.Routine{
		Name:       ir.Global(rec.Name),
		Parameters: l.pool.AllocLocals(params),
		Body:       ir.Anf{Bindings: l.pool.AllocBindings(bindings), Result: result},
	}
	if err := r.Validate(); err != nil {
		return ir.Routine{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return r, nil
}

func (l *loader) operand(ctx context.Context, op operandRecord) (ir.Simple, error) {
	switch {
	case op.Local != nil && op.Quote == nil:
		return ir.Local(*op.Local), nil
	case op.Local == nil && op.Quote != nil:
		h, err := hashFromBytes(op.Quote)
		if err != nil {
			return nil, err
		}
		v, err := l.value(ctx, h)
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: quoted value %s missing", ErrCorrupt, h)
		}
		if err != nil {
			return nil, err
		}
		return ir.Quote{Value: v}, nil
	default:
		return nil, fmt.Errorf("%w: operand must be a local or a quote", ErrCorrupt)
	}
}
