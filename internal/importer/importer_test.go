package importer

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&models.Company{}, &models.Fund{}))

	db.DB = gormDB
}

func buildSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportCompanies(t *testing.T) {
	setupTestDB(t)

	buf := buildSheet(t, [][]interface{}{
		{"Sr No.", "ISIN", "Company Name", "Sector", "ESG Sector", "E Pillar", "S Pillar", "G Pillar", "ESG Pillar", "ESG Rating", "PDF Filename"},
		{"1", "INE001A01018", "Reliance Industries", "Energy", "Oil & Gas", "65", "70", "80", "71.5", "A", "reliance_esg_2024.pdf"},
		{"2", "INE002A01018", "Tata Motors", "Auto", "Automobiles", "60", "62", "75", "64.8", "B+", ""},
		{"3", "", "Row Without ISIN", "", "", "", "", "", "", "", ""},
	})

	imported, err := ImportCompanies(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, imported, "rows without an ISIN are skipped")

	var reliance models.Company
	require.NoError(t, db.DB.First(&reliance, "isin = ?", "INE001A01018").Error)
	assert.Equal(t, "Reliance Industries", reliance.CompanyName)
	assert.Equal(t, "71.5", reliance.ESGPillar)
	assert.Equal(t, "71.5", reliance.ESGScore, "legacy alias mirrors the pillar score")
	assert.Equal(t, "A", reliance.Grade)
	assert.True(t, reliance.HasPDFReport)

	var tata models.Company
	require.NoError(t, db.DB.First(&tata, "isin = ?", "INE002A01018").Error)
	assert.False(t, tata.HasPDFReport, "no filename, no report")
}

func TestImportCompaniesUpsertsExistingRows(t *testing.T) {
	setupTestDB(t)

	first := buildSheet(t, [][]interface{}{
		{"ISIN", "Company Name", "ESG Rating"},
		{"INE001A01018", "Reliance Industries", "B"},
	})
	_, err := ImportCompanies(first)
	require.NoError(t, err)

	second := buildSheet(t, [][]interface{}{
		{"ISIN", "Company Name", "ESG Rating"},
		{"INE001A01018", "Reliance Industries Ltd", "A"},
	})
	imported, err := ImportCompanies(second)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	var count int64
	require.NoError(t, db.DB.Model(&models.Company{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var company models.Company
	require.NoError(t, db.DB.First(&company, "isin = ?", "INE001A01018").Error)
	assert.Equal(t, "Reliance Industries Ltd", company.CompanyName)
	assert.Equal(t, "A", company.ESGRating)
}

func TestImportCompaniesRejectsSheetWithoutISIN(t *testing.T) {
	setupTestDB(t)

	buf := buildSheet(t, [][]interface{}{
		{"Company Name", "Sector"},
		{"Reliance Industries", "Energy"},
	})

	_, err := ImportCompanies(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ISIN")
}

func TestImportFunds(t *testing.T) {
	setupTestDB(t)

	buf := buildSheet(t, [][]interface{}{
		{"Fund Name", "Score", "Percentage", "Grade"},
		{"Green Horizon Fund", "82.4", "12%", "A"},
		{"Coal Legacy Fund", "not-a-number", "3%", "D"},
	})

	imported, err := ImportFunds(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	var green models.Fund
	require.NoError(t, db.DB.First(&green, "fund_name = ?", "Green Horizon Fund").Error)
	require.NotNil(t, green.Score)
	assert.Equal(t, 82.4, *green.Score)

	var coal models.Fund
	require.NoError(t, db.DB.First(&coal, "fund_name = ?", "Coal Legacy Fund").Error)
	assert.Nil(t, coal.Score, "unparseable scores stay null")
}
