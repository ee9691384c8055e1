package excel

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/Chinnu-7/automation-Principal-reportcard/pkg/errors"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			cellName, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName: %v", err)
			}
			if err := f.SetCellValue(sheet, cellName, cell); err != nil {
				t.Fatalf("SetCellValue: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestParseFiltersMetadataRows(t *testing.T) {
	data := buildWorkbook(t, [][]string{
		{"NAME", "CLASS", "ROLL NO", "Math %", "Science %"},
		{"Asha", "7", "1", "72", "65"},
		{"", "", "Question ID", "Q1", "Q2"},
		{"Ravi", "7", "2", "80", "70"},
	})

	records, err := NewParser().Parse(context.Background(), data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Parse() returned %d records, want 2", len(records))
	}
	if name, _ := records[0].Get("NAME"); name != "Asha" {
		t.Errorf("record 0 NAME = %q, want Asha", name)
	}
	if name, _ := records[1].Get("NAME"); name != "Ravi" {
		t.Errorf("record 1 NAME = %q, want Ravi", name)
	}
}

func TestParseMetadataHeaderCasePermutations(t *testing.T) {
	headers := []string{"ROLL NO", "roll no", "Roll No", "rOLL nO"}
	for _, header := range headers {
		t.Run(header, func(t *testing.T) {
			data := buildWorkbook(t, [][]string{
				{"NAME", header},
				{"key", "Question ID"},
				{"Asha", "1"},
			})

			records, err := NewParser().Parse(context.Background(), data)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("Parse() returned %d records, want 1", len(records))
			}
		})
	}
}

func TestParseMetadataRowAnyPosition(t *testing.T) {
	data := buildWorkbook(t, [][]string{
		{"NAME", "ROLL NO"},
		{"Asha", "1"},
		{"Ravi", "2"},
		{"key", "Question ID"},
	})

	records, err := NewParser().Parse(context.Background(), data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Parse() returned %d records, want 2", len(records))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "garbage bytes",
			data:    []byte("this is not a workbook"),
			wantErr: errors.ErrInvalidFileFormat,
		},
		{
			name:    "header only",
			data:    buildWorkbook(t, [][]string{{"NAME", "CLASS"}}),
			wantErr: errors.ErrInvalidFileFormat,
		},
		{
			name: "only metadata rows",
			data: buildWorkbook(t, [][]string{
				{"NAME", "ROLL NO"},
				{"key", "Question ID"},
			}),
			wantErr: errors.ErrEmptyDataset,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse(context.Background(), tt.data)
			if !stderrors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParsePreservesFullRow(t *testing.T) {
	data := buildWorkbook(t, [][]string{
		{"NAME", "CLASS", "ROLL NO", "Math %", "Extra Column"},
		{"Asha", "7", "1", "72", "anything"},
	})

	records, err := NewParser().Parse(context.Background(), data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	record := records[0]
	wantKeys := []string{"NAME", "CLASS", "ROLL NO", "Math %", "Extra Column"}
	if len(record) != len(wantKeys) {
		t.Fatalf("record has %d fields, want %d", len(record), len(wantKeys))
	}
	for i, key := range wantKeys {
		if record[i].Key != key {
			t.Errorf("field %d key = %q, want %q (column order must be preserved)", i, record[i].Key, key)
		}
	}
}

func TestParseStableOnIdenticalInput(t *testing.T) {
	data := buildWorkbook(t, [][]string{
		{"Name", "name", "CLASS"},
		{"A", "B", "7"},
	})

	first, err := NewParser().Parse(context.Background(), data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	second, err := NewParser().Parse(context.Background(), data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	s1 := ExtractStudent(first[0])
	s2 := ExtractStudent(second[0])
	if s1.Name != s2.Name {
		t.Errorf("extraction not stable across runs: %q vs %q", s1.Name, s2.Name)
	}
	// Earlier column wins when two columns match the same alias.
	if s1.Name != "A" {
		t.Errorf("Name = %q, want A", s1.Name)
	}
}
