package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyListItemDerivesHasPDFReport(t *testing.T) {
	// The stored flag is not trusted: only a non-blank filename counts.
	item := NewCompanyListItem(models.Company{
		ISIN:         "INE001A01018",
		CompanyName:  "Reliance Industries",
		HasPDFReport: true,
		PDFFilename:  "",
	})
	assert.False(t, item.HasPDFReport)

	item = NewCompanyListItem(models.Company{
		ISIN:        "INE001A01018",
		PDFFilename: "reliance_esg_2024.pdf",
	})
	assert.True(t, item.HasPDFReport)
}

func TestMyReportRowDownloadURL(t *testing.T) {
	grant := models.UserCompany{
		AssignedAt: time.Now(),
		Company: models.Company{
			ISIN:         "INE001A01018",
			CompanyName:  "Reliance Industries",
			HasPDFReport: true,
			PDFFilename:  "reliance_esg_2024.pdf",
		},
	}

	row := NewMyReportRow(grant)
	assert.Equal(t, "reliance_esg_2024.pdf", row.ReportFilename)
	assert.Equal(t, "/api/reports/download/Reliance Industries/", row.DownloadURL)

	grant.Company.PDFFilename = ""
	row = NewMyReportRow(grant)
	assert.Empty(t, row.ReportFilename)
	assert.Empty(t, row.DownloadURL)
}

func TestArticleResponseDateFormat(t *testing.T) {
	article := models.Article{
		Title:           "ESG in 2024",
		Category:        CategorySpecials,
		PublicationDate: time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC),
		Tags:            []models.Tag{{Name: "Governance", Slug: "governance"}},
	}

	resp := NewArticleResponse(article)
	assert.Equal(t, "05 June, 2024", resp.PublicationDate)
	require.Len(t, resp.Tags, 1)
	assert.Equal(t, "governance", resp.Tags[0].Slug)
}

func TestPurchaseLogResponseFallsBackToSnapshot(t *testing.T) {
	snapshot, err := json.Marshal(models.UserSnapshotData{
		Username:     "alice",
		Email:        "alice@example.com",
		FirstName:    "Alice",
		LastName:     "Iyer",
		Organization: "Acme Capital",
		JobTitle:     "Analyst",
		PhoneNumber:  "+91-98000-00000",
	})
	require.NoError(t, err)

	recorded := 7
	entry := models.PurchaseLog{
		ID:             1,
		UserIDRecorded: &recorded,
		UserSnapshot:   snapshot,
		CompanyName:    "Reliance Industries",
		Timestamp:      time.Now(),
	}

	// The account is gone: identity comes from the snapshot, not zero values.
	resp := NewPurchaseLogResponse(entry)
	assert.Equal(t, "Deleted User (ID: 7)", resp.Username)
	assert.Equal(t, "Alice", resp.FirstName)
	assert.Equal(t, "Iyer", resp.LastName)
	assert.Equal(t, "Acme Capital", resp.Organization)
	assert.Equal(t, "Analyst", resp.JobTitle)
	assert.Equal(t, "alice@example.com", resp.Email)

	// A live user still takes precedence over the stale snapshot.
	entry.User = &models.User{
		Username:  "alice",
		Email:     "alice@newjob.example.com",
		FirstName: "Alice",
	}
	resp = NewPurchaseLogResponse(entry)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@newjob.example.com", resp.Email)
}

func TestPortfolioHoldingProjectsCompanyScores(t *testing.T) {
	aum := 100.0
	holding := models.PortfolioCompany{
		AUMValue: &aum,
		Company: models.Company{
			ISIN:        "INE001A01018",
			CompanyName: "Reliance Industries",
			ESGScore:    "71.5",
			Grade:       "A",
		},
	}

	projected := NewPortfolioHolding(holding)
	require.NotNil(t, projected.ESGComposite)
	assert.Equal(t, 71.5, *projected.ESGComposite)
	assert.Equal(t, "A", projected.ESGRating)

	// Non-numeric stored score projects as null, not zero.
	holding.Company.ESGScore = "n/a"
	projected = NewPortfolioHolding(holding)
	assert.Nil(t, projected.ESGComposite)
}
