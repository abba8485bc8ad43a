package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/studyplan/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupDB(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Setenv("DB_TYPE", "sqlite")
	require.NoError(t, database.Connect())
	t.Cleanup(func() {
		database.Close()
		os.Chdir(wd)
	})
}

func TestImportFromCSV(t *testing.T) {
	setupDB(t)

	path := filepath.Join(t.TempDir(), "plan.csv")
	csv := "topic,subtopic,hours\n" +
		"algebra,linear equations,1.5\n" +
		"algebra,quadratics,2\n" +
		"geometry,triangles,\n" + // empty hours falls back to 1
		",missing topic,1\n" // skipped
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	config := DefaultImportConfig()
	config.FilePath = path

	result, err := ImportSubtopics(context.Background(), config)
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Errors)

	subtopics, err := database.NewSubtopicRepository().GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, subtopics, 3)
	assert.Equal(t, 1.5, subtopics[0].EstimatedHours)
	assert.Equal(t, 1.0, subtopics[2].EstimatedHours, "missing hours defaults to 1")
}

func TestImportFromCSVInvalidHours(t *testing.T) {
	setupDB(t)

	path := filepath.Join(t.TempDir(), "plan.csv")
	csv := "topic,subtopic,hours\n" +
		"algebra,linear equations,abc\n" +
		"algebra,quadratics,-2\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	config := DefaultImportConfig()
	config.FilePath = path

	result, err := ImportSubtopics(context.Background(), config)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Skipped)
	assert.Len(t, result.Errors, 2)
	assert.Zero(t, result.Created)
}

func TestImportReimportUpdates(t *testing.T) {
	setupDB(t)

	path := filepath.Join(t.TempDir(), "plan.csv")
	require.NoError(t, os.WriteFile(path, []byte("topic,subtopic,hours\nalgebra,quadratics,2\n"), 0644))

	config := DefaultImportConfig()
	config.FilePath = path

	_, err := ImportSubtopics(context.Background(), config)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("topic,subtopic,hours\nalgebra,quadratics,3\n"), 0644))
	result, err := ImportSubtopics(context.Background(), config)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Zero(t, result.Created)

	subtopics, err := database.NewSubtopicRepository().GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, subtopics, 1)
	assert.Equal(t, 3.0, subtopics[0].EstimatedHours)
}

func TestImportFromExcel(t *testing.T) {
	setupDB(t)

	path := filepath.Join(t.TempDir(), "plan.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "topic"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "subtopic"))
	require.NoError(t, f.SetCellValue("Sheet1", "C1", "hours"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "algebra"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "linear equations"))
	require.NoError(t, f.SetCellValue("Sheet1", "C2", 1.5))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "geometry"))
	require.NoError(t, f.SetCellValue("Sheet1", "B3", "triangles"))
	require.NoError(t, f.SetCellValue("Sheet1", "C3", 2))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	config := DefaultImportConfig()
	config.FilePath = path

	result, err := ImportSubtopics(context.Background(), config)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Empty(t, result.Errors)

	subtopics, err := database.NewSubtopicRepository().GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, subtopics, 2)
}
