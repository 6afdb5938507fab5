package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/verte-zerg/catplot/internal/model"
)

// ParseCSV parses a CSV file whose first row holds the column names.
func ParseCSV(data []byte) (*model.Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV is empty")
	}
	return rowsToTable(records[0], records[1:])
}
