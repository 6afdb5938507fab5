package model

import (
	"fmt"
	"math"
	"strconv"

	"github.com/verte-zerg/catplot/internal/failure"
)

// ColumnKind tells whether a column holds numbers or labels.
type ColumnKind int

const (
	// Numeric columns hold float64 values; NaN marks a missing value.
	Numeric ColumnKind = iota + 1
	// Categorical columns hold string labels.
	Categorical
)

// Column is a single named column of a Table.
type Column struct {
	Name    string
	Kind    ColumnKind
	Numbers []float64
	Labels  []string
}

// Table is the in-memory record set. It is read-only once built.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Names returns column names in source order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	idx, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[idx], true
}

// NumericNames returns the names of numeric columns in source order.
func (t *Table) NumericNames() []string {
	var names []string
	for _, c := range t.columns {
		if c.Kind == Numeric {
			names = append(names, c.Name)
		}
	}
	return names
}

// Numbers returns the values of a numeric column.
func (t *Table) Numbers(name string) ([]float64, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", failure.ErrMissingColumn, name)
	}
	if col.Kind != Numeric {
		return nil, fmt.Errorf("column %q is not numeric", name)
	}
	return col.Numbers, nil
}

// Labels returns the values of any column as strings.
func (t *Table) Labels(name string) ([]string, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", failure.ErrMissingColumn, name)
	}
	if col.Kind == Categorical {
		return col.Labels, nil
	}
	out := make([]string, len(col.Numbers))
	for i, v := range col.Numbers {
		if math.IsNaN(v) {
			continue
		}
		out[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out, nil
}

// Field is one named value of a source row. Value is nil, float64, string or bool.
type Field struct {
	Name  string
	Value any
}

// Builder accumulates rows and infers column kinds.
type Builder struct {
	names []string
	index map[string]int
	cells [][]any
	rows  int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: map[string]int{}}
}

// AddRow appends one row. Columns first seen here are backfilled with missing values.
func (b *Builder) AddRow(fields []Field) {
	for _, f := range fields {
		if _, ok := b.index[f.Name]; ok {
			continue
		}
		b.index[f.Name] = len(b.names)
		b.names = append(b.names, f.Name)
		b.cells = append(b.cells, make([]any, b.rows))
	}
	for i := range b.cells {
		b.cells[i] = append(b.cells[i], nil)
	}
	for _, f := range fields {
		b.cells[b.index[f.Name]][b.rows] = f.Value
	}
	b.rows++
}

// Build returns the table. A column is numeric when every present value is a number.
func (b *Builder) Build() *Table {
	t := &Table{
		columns: make([]Column, 0, len(b.names)),
		index:   make(map[string]int, len(b.names)),
		rows:    b.rows,
	}
	for i, name := range b.names {
		t.index[name] = i
		t.columns = append(t.columns, buildColumn(name, b.cells[i]))
	}
	return t
}

func buildColumn(name string, values []any) Column {
	numeric := false
	for _, v := range values {
		if v == nil {
			continue
		}
		if _, ok := v.(float64); !ok {
			numeric = false
			break
		}
		numeric = true
	}
	if numeric {
		nums := make([]float64, len(values))
		for i, v := range values {
			if f, ok := v.(float64); ok {
				nums[i] = f
			} else {
				nums[i] = math.NaN()
			}
		}
		return Column{Name: name, Kind: Numeric, Numbers: nums}
	}
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = formatLabel(v)
	}
	return Column{Name: name, Kind: Categorical, Labels: labels}
}

func formatLabel(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
