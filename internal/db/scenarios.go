package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"aimtrainer/internal/options"
	"aimtrainer/internal/scenarios"
)

// SaveScenario inserts sc or replaces the stored drill with the same id.
func (d *DB) SaveScenario(ctx context.Context, sc scenarios.Scenario) error {
	opts, err := json.Marshal(sc.Options)
	if err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}
	_, err = d.conn.ExecContext(ctx, `
		INSERT INTO scenarios (id, name, category, difficulty, kind, objective, options)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = $2, category = $3, difficulty = $4, kind = $5,
			objective = $6, options = $7, updated_at = NOW()
	`, sc.ID, sc.Name, string(sc.Category), sc.Difficulty, string(sc.Kind), sc.Objective, opts)
	if err != nil {
		return fmt.Errorf("saving scenario %s: %w", sc.ID, err)
	}
	return nil
}

func (d *DB) GetScenario(ctx context.Context, id string) (*scenarios.Scenario, error) {
	row := d.conn.QueryRowContext(ctx, `
		SELECT id, name, category, difficulty, kind, objective, options
		FROM scenarios WHERE id = $1
	`, id)
	sc, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting scenario %s: %w", id, err)
	}
	return sc, nil
}

// ListScenarios returns drills ordered by difficulty. An empty categories
// list matches every category.
func (d *DB) ListScenarios(ctx context.Context, categories []string, limit int) ([]scenarios.Scenario, error) {
	if limit <= 0 {
		limit = 50
	}
	if categories == nil {
		categories = []string{}
	}
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, name, category, difficulty, kind, objective, options
		FROM scenarios
		WHERE cardinality($1::text[]) = 0 OR category = ANY($1)
		ORDER BY difficulty, name
		LIMIT $2
	`, pq.Array(categories), limit)
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}
	defer rows.Close()

	var list []scenarios.Scenario
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scenario: %w", err)
		}
		list = append(list, *sc)
	}
	return list, rows.Err()
}

func (d *DB) DeleteScenario(ctx context.Context, id string) error {
	res, err := d.conn.ExecContext(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting scenario %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScenario(row scanner) (*scenarios.Scenario, error) {
	var (
		sc       scenarios.Scenario
		category string
		kind     string
		raw      []byte
	)
	if err := row.Scan(&sc.ID, &sc.Name, &category, &sc.Difficulty, &kind, &sc.Objective, &raw); err != nil {
		return nil, err
	}
	sc.Category = scenarios.Category(category)
	sc.Kind = scenarios.Kind(kind)
	opts, err := options.Parse(raw, options.Defaults())
	if err != nil {
		return nil, fmt.Errorf("decoding options of %s: %w", sc.ID, err)
	}
	sc.Options = opts
	return &sc, nil
}
