package excel

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/example/phrasetrainer/internal/history"
	"github.com/example/phrasetrainer/internal/stats"
	"github.com/example/phrasetrainer/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ExportConfig defines the export configuration
type ExportConfig struct {
	FilePath  string // Destination file, .xlsx or .csv
	SheetName string // Name of the data sheet (xlsx only)
}

// DefaultExportConfig returns the default export configuration
func DefaultExportConfig(path string) ExportConfig {
	return ExportConfig{
		FilePath:  path,
		SheetName: "History",
	}
}

var header = []interface{}{
	"phrase_id",
	"first_seen_date",
	"last_played_date",
	"next_due_date",
	"fib_index",
	"miss_count",
	"hesitation_flag",
}

// ExportLedger writes the ledger to the configured file. The format follows
// the file extension: .csv produces the same table as the CSV store, anything
// else an Excel workbook with a data sheet and a summary sheet.
func ExportLedger(ledger map[string]models.PhraseRecord, config ExportConfig) error {
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		return history.NewCSVStore(config.FilePath).Save(ledger)
	}
	return exportToExcel(ledger, config)
}

// exportToExcel writes the ledger and a summary sheet to an xlsx workbook.
func exportToExcel(ledger map[string]models.PhraseRecord, config ExportConfig) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", config.SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %v", err)
	}
	if err := f.SetSheetRow(config.SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %v", err)
	}

	ids := make([]string, 0, len(ledger))
	for id := range ledger {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for i, id := range ids {
		rec := ledger[id]
		row := []interface{}{
			rec.PhraseID,
			rec.FirstSeenDate.Format(models.DateLayout),
			rec.LastPlayedDate.Format(models.DateLayout),
			rec.NextDueDate.Format(models.DateLayout),
			rec.FibIndex,
			rec.MissCount,
			rec.Hesitation,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell for row %d: %v", i+2, err)
		}
		if err := f.SetSheetRow(config.SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %v", i+2, err)
		}
	}

	if err := writeSummarySheet(f, ledger); err != nil {
		return err
	}

	if err := f.SaveAs(config.FilePath); err != nil {
		return fmt.Errorf("failed to save %s: %v", config.FilePath, err)
	}
	return nil
}

// writeSummarySheet adds an aggregate view next to the raw table.
func writeSummarySheet(f *excelize.File, ledger map[string]models.PhraseRecord) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %v", err)
	}

	summary := stats.Compute(ledger, time.Now())
	nextDue := ""
	if !summary.NextDue.IsZero() {
		nextDue = summary.NextDue.Format(models.DateLayout)
	}
	rows := [][]interface{}{
		{"total_phrases", summary.TotalPhrases},
		{"due_today", summary.DueToday},
		{"mastered", summary.Mastered},
		{"hesitating", summary.Hesitating},
		{"total_misses", summary.TotalMisses},
		{"next_due", nextDue},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute summary cell: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %v", err)
		}
	}
	return nil
}
