// Package store handles SQLite persistence of record sets.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/catplot/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNoDataset is returned when the store holds no matching dataset.
var ErrNoDataset = errors.New("no dataset stored")

// Store wraps SQLite access for imported record sets.
type Store struct {
	db *sql.DB
}

// DatasetInfo describes a stored record set.
type DatasetInfo struct {
	ID         int64
	Name       string
	ImportedAt time.Time
	Rows       int
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			imported_at TEXT NOT NULL,
			row_count INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS dataset_columns (
			dataset_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			kind INTEGER NOT NULL,
			PRIMARY KEY (dataset_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS dataset_values (
			dataset_id INTEGER NOT NULL,
			row INTEGER NOT NULL,
			position INTEGER NOT NULL,
			num REAL,
			label TEXT,
			PRIMARY KEY (dataset_id, row, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_datasets_name ON datasets(name);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertTable stores a record set under the given name and returns its id.
func (s *Store) InsertTable(ctx context.Context, name string, table *model.Table, importedAt time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (name, imported_at, row_count) VALUES (?, ?, ?)`,
		name,
		importedAt.Format(time.RFC3339Nano),
		table.Len(),
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	colStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO dataset_columns (dataset_id, position, name, kind) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := colStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	valStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO dataset_values (dataset_id, row, position, num, label) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := valStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	for pos, colName := range table.Names() {
		col, _ := table.Column(colName)
		if _, err = colStmt.ExecContext(ctx, id, pos, col.Name, int(col.Kind)); err != nil {
			return 0, err
		}
		for row := 0; row < table.Len(); row++ {
			var num sql.NullFloat64
			var label sql.NullString
			if col.Kind == model.Numeric {
				if v := col.Numbers[row]; !math.IsNaN(v) {
					num = sql.NullFloat64{Float64: v, Valid: true}
				}
			} else {
				label = sql.NullString{String: col.Labels[row], Valid: true}
			}
			if _, err = valStmt.ExecContext(ctx, id, row, pos, num, label); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListDatasets returns stored datasets, oldest first.
func (s *Store) ListDatasets(ctx context.Context) ([]DatasetInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, imported_at, row_count FROM datasets ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []DatasetInfo
	for rows.Next() {
		var info DatasetInfo
		var importedAt string
		if err := rows.Scan(&info.ID, &info.Name, &importedAt, &info.Rows); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, importedAt)
		if err != nil {
			return nil, err
		}
		info.ImportedAt = parsed
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LoadTable rebuilds the most recently imported dataset with the given name.
// An empty name selects the most recent dataset of any name.
func (s *Store) LoadTable(ctx context.Context, name string) (*model.Table, error) {
	var id int64
	var rowCount int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, row_count FROM datasets
		WHERE (? = '' OR name = ?)
		ORDER BY id DESC
		LIMIT 1`, name, name).Scan(&id, &rowCount)
	if errors.Is(err, sql.ErrNoRows) {
		if name == "" {
			return nil, ErrNoDataset
		}
		return nil, fmt.Errorf("%w: %q", ErrNoDataset, name)
	}
	if err != nil {
		return nil, err
	}

	names, err := s.columnNames(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT row, position, num, label FROM dataset_values
		WHERE dataset_id = ?
		ORDER BY row ASC, position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	fields := make([][]model.Field, rowCount)
	for rows.Next() {
		var row, pos int
		var num sql.NullFloat64
		var label sql.NullString
		if err := rows.Scan(&row, &pos, &num, &label); err != nil {
			return nil, err
		}
		if row < 0 || row >= rowCount || pos < 0 || pos >= len(names) {
			return nil, fmt.Errorf("dataset %d has value outside its shape (row %d, column %d)", id, row, pos)
		}
		field := model.Field{Name: names[pos]}
		switch {
		case num.Valid:
			field.Value = num.Float64
		case label.Valid:
			field.Value = label.String
		}
		fields[row] = append(fields[row], field)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	b := model.NewBuilder()
	for _, rowFields := range fields {
		b.AddRow(rowFields)
	}
	return b.Build(), nil
}

func (s *Store) columnNames(ctx context.Context, id int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM dataset_columns WHERE dataset_id = ? ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}
