package casedb

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jihoonpark/contractcore/model"
	"github.com/xuri/excelize/v2"
)

// caseEntry is the local decode target for the corpus JSON array; it
// mirrors model.Case but keeps the package's on-disk format decoupled
// from the shared domain type.
type caseEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// LoadCorpusJSON reads the corpus file (spec.md §6: "JSON array of
// {key, value}"). A missing file is fatal to the caller per spec.md
// §4.1's load contract.
func LoadCorpusJSON(path string) ([]model.Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading case corpus: %w", err)
	}
	var entries []caseEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing case corpus: %w", err)
	}
	return toModelCases(entries), nil
}

// LoadCorpusXLSX reads a corpus maintained as a spreadsheet with "key"
// and "value" header columns on its first sheet — a supplement to the
// JSON format, for teams that keep precedent lists in Excel rather than
// hand-rolled JSON.
func LoadCorpusXLSX(path string) ([]model.Case, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening case corpus workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading case corpus rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("case corpus workbook is empty")
	}

	keyCol, valueCol := -1, -1
	for i, h := range rows[0] {
		switch h {
		case "key":
			keyCol = i
		case "value":
			valueCol = i
		}
	}
	if keyCol == -1 || valueCol == -1 {
		return nil, fmt.Errorf("case corpus workbook missing 'key'/'value' header columns")
	}

	var cases []model.Case
	for _, row := range rows[1:] {
		if keyCol >= len(row) || valueCol >= len(row) {
			continue
		}
		key, value := row[keyCol], row[valueCol]
		if key == "" {
			continue
		}
		cases = append(cases, model.Case{Key: key, Value: value})
	}
	return cases, nil
}

// ExportCorpusXLSX writes a case corpus to an .xlsx workbook with "key"
// and "value" header columns, the inverse of LoadCorpusXLSX.
func ExportCorpusXLSX(path string, cases []model.Case) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"key", "value"}); err != nil {
		return err
	}
	for i, c := range cases {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{c.Key, c.Value}); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func toModelCases(entries []caseEntry) []model.Case {
	cases := make([]model.Case, len(entries))
	for i, e := range entries {
		cases[i] = model.Case{Key: e.Key, Value: e.Value}
	}
	return cases
}

func toCaseEntries(cases []model.Case) []caseEntry {
	entries := make([]caseEntry, len(cases))
	for i, c := range cases {
		entries[i] = caseEntry{Key: c.Key, Value: c.Value}
	}
	return entries
}
