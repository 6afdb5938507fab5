// Package dataset loads catalyst record sets from structured files.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/phuslu/log"

	"github.com/verte-zerg/catplot/internal/failure"
	"github.com/verte-zerg/catplot/internal/model"
	"github.com/verte-zerg/catplot/internal/store"
)

const opLoad = "load records"

// Format identifies a source file format.
type Format string

const (
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// DetectFormat picks the source format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unsupported source format %q (want .json, .csv, .xlsx or .db)", filepath.Ext(path))
	}
}

// Load reads the whole record set from path. Nothing is returned on failure.
func Load(ctx context.Context, path string) (*model.Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, failure.New(failure.Parse, opLoad, path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, failure.New(failure.NotFound, opLoad, path, err)
		}
		return nil, failure.New(failure.IO, opLoad, path, err)
	}
	if info.IsDir() {
		return nil, failure.New(failure.NotFound, opLoad, path, fmt.Errorf("source is a directory"))
	}

	var table *model.Table
	switch format {
	case FormatJSON:
		table, err = loadFile(path, ParseJSON)
	case FormatCSV:
		table, err = loadFile(path, ParseCSV)
	case FormatXLSX:
		table, err = LoadXLSX(path)
	case FormatSQLite:
		table, err = loadSQLite(ctx, path)
	}
	if err != nil {
		var fe *failure.Error
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, failure.New(failure.Parse, opLoad, path, err)
	}

	log.Debug().Str("source", path).Str("format", string(format)).
		Int("rows", table.Len()).Int("columns", len(table.Names())).Msg("loaded records")
	return table, nil
}

func loadFile(path string, parse func([]byte) (*model.Table, error)) (*model.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, failure.New(failure.IO, opLoad, path, err)
	}
	return parse(data)
}

func loadSQLite(ctx context.Context, path string) (*model.Table, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			// Best-effort close for read-only access.
			_ = cerr
		}
	}()
	table, err := st.LoadTable(ctx, "")
	if errors.Is(err, store.ErrNoDataset) {
		return nil, failure.New(failure.NotFound, opLoad, path, err)
	}
	return table, err
}

// parseCell turns a text cell into a number, a label or a missing value.
func parseCell(raw string) any {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

func rowsToTable(header []string, rows [][]string) (*model.Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	names := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			return nil, fmt.Errorf("header column %d is empty", i+1)
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = struct{}{}
		names[i] = name
	}

	b := model.NewBuilder()
	for r, row := range rows {
		if len(row) > len(names) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", r+2, len(row), len(names))
		}
		fields := make([]model.Field, len(names))
		for i, name := range names {
			fields[i] = model.Field{Name: name}
			if i < len(row) {
				fields[i].Value = parseCell(row[i])
			}
		}
		b.AddRow(fields)
	}
	return b.Build(), nil
}
