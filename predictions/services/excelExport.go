package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"doctor-survey-targeting/predictions/models"

	"github.com/xuri/excelize/v2"
)

// ExcelSheetName is the worksheet holding exported predictions.
const ExcelSheetName = "Predictions"

// BuildExcel writes records into an XLSX workbook using the same column layout
// as BuildCSV. Numeric values become numeric cells. ok is false for an empty list.
func BuildExcel(records []models.DoctorRecommendation) (content []byte, ok bool, err error) {
	if len(records) == 0 {
		return nil, false, nil
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExcelSheetName); err != nil {
		return nil, false, fmt.Errorf("error renaming sheet: %w", err)
	}

	keys := records[0].Keys()
	for col, key := range keys {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, false, err
		}
		if err := f.SetCellValue(ExcelSheetName, cell, key); err != nil {
			return nil, false, fmt.Errorf("error setting header %s: %w", key, err)
		}
	}

	for row, rec := range records {
		for col, key := range keys {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, false, err
			}
			if err := f.SetCellValue(ExcelSheetName, cell, cellValue(rec.Value(key))); err != nil {
				return nil, false, fmt.Errorf("error setting value for field %s (row %d): %w", key, row+2, err)
			}
		}
	}

	if err := f.SetColWidth(ExcelSheetName, "A", "D", 18); err != nil {
		return nil, false, err
	}

	var buf *bytes.Buffer
	if buf, err = f.WriteToBuffer(); err != nil {
		return nil, false, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf.Bytes(), true, nil
}

// cellValue keeps numbers numeric and renders everything else as text.
func cellValue(raw json.RawMessage) any {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && (raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		if f, err := strconv.ParseFloat(string(raw), 64); err == nil {
			return f
		}
	}
	return models.Text(raw)
}
