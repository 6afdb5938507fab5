package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/buger/jsonparser"

	"github.com/verte-zerg/catplot/internal/model"
)

// ParseJSON parses an array of flat objects. Key order of the first object
// that introduces a column decides column order.
func ParseJSON(data []byte) (*model.Table, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("malformed JSON")
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("expected a JSON array of records")
	}

	b := model.NewBuilder()
	row := 0
	var rowErr error
	_, err := jsonparser.ArrayEach(trimmed, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if rowErr != nil {
			return
		}
		if err != nil {
			rowErr = fmt.Errorf("record %d: %w", row, err)
			return
		}
		if dataType != jsonparser.Object {
			rowErr = fmt.Errorf("record %d: expected object, got %v", row, dataType)
			return
		}
		fields, err := parseRecord(value)
		if err != nil {
			rowErr = fmt.Errorf("record %d: %w", row, err)
			return
		}
		b.AddRow(fields)
		row++
	})
	if rowErr != nil {
		return nil, rowErr
	}
	if err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func parseRecord(data []byte) ([]model.Field, error) {
	var fields []model.Field
	err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return fmt.Errorf("bad key %q: %w", key, err)
		}
		field := model.Field{Name: name}
		switch dataType {
		case jsonparser.Number:
			f, err := jsonparser.ParseFloat(value)
			if err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
			field.Value = f
		case jsonparser.String:
			s, err := jsonparser.ParseString(value)
			if err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
			field.Value = s
		case jsonparser.Boolean:
			v, err := jsonparser.ParseBoolean(value)
			if err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
			field.Value = v
		case jsonparser.Null:
		default:
			return fmt.Errorf("field %q: nested values are not supported", name)
		}
		fields = append(fields, field)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}
