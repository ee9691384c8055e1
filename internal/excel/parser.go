package excel

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Chinnu-7/automation-Principal-reportcard/internal/model"
	"github.com/Chinnu-7/automation-Principal-reportcard/pkg/errors"

	"github.com/xuri/excelize/v2"
)

// metadataSentinel marks answer-key rows some source templates embed below the
// header. The header is matched case-insensitively, the cell value exactly.
const (
	metadataSentinel = "Question ID"
	rollNoHeader     = "ROLL NO"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes the first sheet of a workbook into ordered row maps keyed by
// the header row, with metadata rows filtered out. It fails on unreadable
// files and on files that yield zero usable rows; it never rejects a row for
// missing canonical fields.
func (p *Parser) Parse(ctx context.Context, data []byte) ([]model.ResponseMap, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidFileFormat, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ErrInvalidFileFormat
	}

	// First sheet only. Additional sheets are out of scope, not an error.
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) < 2 { // header plus at least one data row
		return nil, errors.ErrInvalidFileFormat
	}

	header := rows[0]
	var records []model.ResponseMap
	for _, row := range rows[1:] {
		record := toRecord(header, row)
		if len(record) == 0 || isBlank(record) {
			continue
		}
		if isMetadataRow(record) {
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, errors.ErrEmptyDataset
	}

	return records, nil
}

func toRecord(header, row []string) model.ResponseMap {
	record := make(model.ResponseMap, 0, len(header))
	for i, col := range header {
		key := strings.TrimSpace(col)
		if key == "" {
			continue
		}
		var value string
		if i < len(row) {
			value = strings.TrimSpace(row[i])
		}
		record = append(record, model.Field{Key: key, Value: value})
	}
	return record
}

func isBlank(record model.ResponseMap) bool {
	for _, f := range record {
		if f.Value != "" {
			return false
		}
	}
	return true
}

func isMetadataRow(record model.ResponseMap) bool {
	for _, f := range record {
		if strings.EqualFold(strings.TrimSpace(f.Key), rollNoHeader) {
			return f.Value == metadataSentinel
		}
	}
	return false
}
