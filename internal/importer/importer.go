package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm/clause"
)

// Catalog data arrives as spreadsheets maintained by the research team. The
// importers read the first sheet, map columns by header name, and upsert
// rows, so re-importing an updated sheet refreshes the catalog in place.

// ImportCompanies loads company ESG rows from an xlsx stream. Rows without an
// ISIN are skipped. Returns the number of rows imported.
func ImportCompanies(r io.Reader) (int, error) {
	rows, err := sheetRows(r)
	if err != nil {
		return 0, err
	}
	if len(rows) < 2 {
		return 0, fmt.Errorf("sheet has no data rows")
	}

	cols := headerIndex(rows[0])
	if _, ok := cols["isin"]; !ok {
		return 0, fmt.Errorf("sheet is missing an ISIN column")
	}

	imported := 0

	for _, row := range rows[1:] {
		cell := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		isin := cell("isin")
		if isin == "" {
			continue
		}

		company := models.Company{
			ISIN:              isin,
			CompanyName:       cell("company name"),
			BSESymbol:         cell("bse symbol"),
			NSESymbol:         cell("nse symbol"),
			Sector:            cell("sector"),
			Industry:          cell("industry"),
			ESGSector:         cell("esg sector"),
			MarketCap:         cell("mcap"),
			EPillar:           cell("e pillar"),
			SPillar:           cell("s pillar"),
			GPillar:           cell("g pillar"),
			ESGPillar:         cell("esg pillar"),
			PositiveScreen:    cell("positive screen"),
			NegativeScreen:    cell("negative screen"),
			ControversyRating: cell("controversy rating"),
			CompositeRating:   cell("composite rating"),
			ESGRating:         cell("esg rating"),
			PDFFilename:       cell("pdf filename"),
			SrNo:              cell("sr no."),
		}

		company.HasPDFReport = company.PDFFilename != ""

		// Legacy aliases served to older API consumers.
		company.Grade = company.ESGRating
		company.EScore = company.EPillar
		company.SScore = company.SPillar
		company.GScore = company.GPillar
		company.ESGScore = company.ESGPillar
		company.Positive = company.PositiveScreen
		company.Negative = company.NegativeScreen
		company.Controversy = company.ControversyRating
		company.Composite = company.CompositeRating

		err := db.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "isin"}},
			UpdateAll: true,
		}).Create(&company).Error
		if err != nil {
			return imported, fmt.Errorf("row for %s: %w", isin, err)
		}

		imported++
	}

	return imported, nil
}

// ImportFunds loads fund rows from an xlsx stream, keyed by fund name.
func ImportFunds(r io.Reader) (int, error) {
	rows, err := sheetRows(r)
	if err != nil {
		return 0, err
	}
	if len(rows) < 2 {
		return 0, fmt.Errorf("sheet has no data rows")
	}

	cols := headerIndex(rows[0])
	if _, ok := cols["fund name"]; !ok {
		return 0, fmt.Errorf("sheet is missing a Fund Name column")
	}

	imported := 0

	for _, row := range rows[1:] {
		cell := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		name := cell("fund name")
		if name == "" {
			continue
		}

		fund := models.Fund{
			FundName:   name,
			Percentage: cell("percentage"),
			Grade:      cell("grade"),
		}

		if raw := cell("score"); raw != "" {
			if score, err := strconv.ParseFloat(raw, 64); err == nil {
				fund.Score = &score
			}
		}

		err := db.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fund_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "percentage", "grade", "updated_at"}),
		}).Create(&fund).Error
		if err != nil {
			return imported, fmt.Errorf("row for %s: %w", name, err)
		}

		imported++
	}

	return imported, nil
}

func sheetRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	return f.GetRows(sheets[0])
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}
