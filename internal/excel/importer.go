package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath    string // Path to the Excel or CSV file
	TopicColumn string // Column with the topic name
	NameColumn  string // Column with the subtopic name
	HoursColumn string // Column with the estimated hours
	SheetName   string // Name of the sheet to import
	StartRow    int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TopicColumn: "A",
		NameColumn:  "B",
		HoursColumn: "C",
		SheetName:   "Sheet1",
		StartRow:    2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportSubtopics imports study subtopics from an Excel or CSV file
func ImportSubtopics(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(ctx, config)
	}
	return importFromExcel(ctx, config)
}

// importFromExcel imports subtopics from an Excel file
func importFromExcel(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	repo := database.NewSubtopicRepository()
	result := &ImportResult{Errors: make([]string, 0)}

	position := 0
	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		result.TotalProcessed++
		position++

		if err := processRow(ctx, row, config, repo, result, position); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports subtopics from a CSV file
func importFromCSV(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	repo := database.NewSubtopicRepository()
	result := &ImportResult{Errors: make([]string, 0)}

	rowNum := 0
	position := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %v", err)
		}
		rowNum++

		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++
		position++

		if err := processRow(ctx, row, config, repo, result, position); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// processRow upserts one subtopic from a row of cells
func processRow(ctx context.Context, row []string, config ImportConfig, repo *database.SubtopicRepository, result *ImportResult, position int) error {
	topic := cellValue(row, config.TopicColumn)
	name := cellValue(row, config.NameColumn)
	hoursText := cellValue(row, config.HoursColumn)

	if topic == "" || name == "" {
		result.Skipped++
		return nil
	}

	hours := 1.0
	if hoursText != "" {
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(hoursText, ",", "."), 64)
		if err != nil {
			result.Skipped++
			return fmt.Errorf("invalid hours value %q", hoursText)
		}
		if parsed <= 0 {
			result.Skipped++
			return fmt.Errorf("hours must be positive, got %q", hoursText)
		}
		hours = parsed
	}

	subtopic := &models.Subtopic{
		Topic:          topic,
		Name:           name,
		EstimatedHours: hours,
		Position:       position,
	}
	created, err := repo.CreateOrUpdate(ctx, subtopic)
	if err != nil {
		return err
	}
	if created {
		result.Created++
	} else {
		result.Updated++
	}
	return nil
}

// cellValue reads a cell by its column letter, tolerating short rows
func cellValue(row []string, column string) string {
	idx, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return ""
	}
	if idx-1 >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx-1])
}
