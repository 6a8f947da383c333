package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/resume-extractor/internal/entity"
)

// SheetName is the worksheet holding one row per résumé.
const SheetName = "Resumes"

// Columns is the header row, in order.
var Columns = []string{"file_name", "name", "mobile", "email", "name_hints"}

// Service writes extraction records to spreadsheet and JSON Lines files.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// RecordsXLSX returns a workbook (as bytes) with a header row and one row per record.
func (s *Service) RecordsXLSX(records []entity.ExtractionRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	// the default sheet becomes the only sheet
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(activeIndex)

	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	for i, r := range records {
		row := i + 2
		write := func(col int, v string) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellStr(SheetName, cell, v)
		}
		write(1, r.FileName)
		write(2, r.Name)
		write(3, r.Mobile)
		write(4, r.Email)
		write(5, r.NameHintsJoined())
	}

	_ = f.SetColWidth(SheetName, "A", "A", 32) // file
	_ = f.SetColWidth(SheetName, "B", "B", 28) // name
	_ = f.SetColWidth(SheetName, "C", "C", 30) // mobile
	_ = f.SetColWidth(SheetName, "D", "D", 40) // email
	_ = f.SetColWidth(SheetName, "E", "E", 48) // hints

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteXLSX writes the workbook to path, creating parent directories.
func (s *Service) WriteXLSX(path string, records []entity.ExtractionRecord) error {
	b, err := s.RecordsXLSX(records)
	if err != nil {
		return err
	}
	return writeFile(path, b)
}

func writeFile(path string, b []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
