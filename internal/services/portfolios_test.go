package services

import (
	"testing"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPortfolioResolvesByISINAndName(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice", "alice@example.com")
	createTestCompany(t, "INE001A01018", "Reliance Industries")
	createTestCompany(t, "INE002A01018", "Tata Motors")

	payload := `[{"id_key":"INE001A01018","aum":100.0},{"id_key":"Tata Motors","aum":50.5}]`
	portfolio, err := BuildPortfolio(user.ID, "Portfolio 1", payload)
	require.NoError(t, err)

	require.Len(t, portfolio.Companies, 2)

	byISIN := make(map[string]float64)
	for _, holding := range portfolio.Companies {
		require.NotNil(t, holding.AUMValue)
		byISIN[holding.CompanyISIN] = *holding.AUMValue
	}
	assert.Equal(t, 100.0, byISIN["INE001A01018"])
	assert.Equal(t, 50.5, byISIN["INE002A01018"])
}

func TestBuildPortfolioUnresolvedIsAtomic(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice", "alice@example.com")
	createTestCompany(t, "INE001A01018", "Reliance Industries")

	payload := `[{"id_key":"INE001A01018","aum":100.0},{"id_key":"BadName","aum":50.0}]`
	_, err := BuildPortfolio(user.ID, "Portfolio 1", payload)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "BadName")

	var portfolios, holdings int64
	require.NoError(t, db.DB.Model(&models.Portfolio{}).Count(&portfolios).Error)
	require.NoError(t, db.DB.Model(&models.PortfolioCompany{}).Count(&holdings).Error)
	assert.Zero(t, portfolios, "no partial portfolio")
	assert.Zero(t, holdings, "no partial holdings")
}

func TestBuildPortfolioNullPayloadLeavesHoldingsIntact(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice", "alice@example.com")
	createTestCompany(t, "INE001A01018", "Reliance Industries")

	_, err := BuildPortfolio(user.ID, "Growth", `[{"id_key":"INE001A01018","aum":100}]`)
	require.NoError(t, err)

	// A JSON null decodes into a nil slice without error; it must be
	// rejected like any other non-list, not treated as an empty replacement.
	_, err = BuildPortfolio(user.ID, "Growth", `null`)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "JSON list")

	portfolio, err := GetPortfolio(user.ID, "Growth")
	require.NoError(t, err)
	require.Len(t, portfolio.Companies, 1, "existing holdings survive the rejected payload")
}

func TestBuildPortfolioAggregatesPayloadProblems(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice", "alice@example.com")

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"malformed JSON", `{not json`, "JSON list"},
		{"non-list top level", `{"id_key":"X","aum":1}`, "JSON list"},
		{"missing keys", `[{"isin":"INE001A01018"}]`, "'id_key' and 'aum'"},
		{"non-numeric aum", `[{"id_key":"INE001A01018","aum":"lots"}]`, "must be a number"},
		{"negative aum", `[{"id_key":"INE001A01018","aum":-5}]`, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPortfolio(user.ID, "Portfolio 1", tt.payload)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Error(), tt.want)
		})
	}
}

func TestBuildPortfolioReportsEveryBadItem(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice", "alice@example.com")

	payload := `[{"aum":1},{"id_key":"X","aum":"NaN"},{"id_key":"Y","aum":-1}]`
	_, err := BuildPortfolio(user.ID, "Portfolio 1", payload)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 3, "every offending item is reported at once")
}

func TestBuildPortfolioReplacesNotMerges(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice", "alice@example.com")
	createTestCompany(t, "INE001A01018", "Reliance Industries")
	createTestCompany(t, "INE002A01018", "Tata Motors")
	createTestCompany(t, "INE003A01018", "Infosys")

	_, err := BuildPortfolio(user.ID, "Portfolio 1",
		`[{"id_key":"INE001A01018","aum":100},{"id_key":"INE002A01018","aum":50}]`)
	require.NoError(t, err)

	rebuilt, err := BuildPortfolio(user.ID, "Portfolio 1",
		`[{"id_key":"INE002A01018","aum":80},{"id_key":"INE003A01018","aum":20}]`)
	require.NoError(t, err)

	require.Len(t, rebuilt.Companies, 2)

	isins := []string{rebuilt.Companies[0].CompanyISIN, rebuilt.Companies[1].CompanyISIN}
	assert.ElementsMatch(t, []string{"INE002A01018", "INE003A01018"}, isins)

	var holdings int64
	require.NoError(t, db.DB.Model(&models.PortfolioCompany{}).Count(&holdings).Error)
	assert.EqualValues(t, 2, holdings, "old holdings are superseded, not kept alongside")
}

func TestBuildPortfolioIdempotentReplay(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice", "alice@example.com")
	createTestCompany(t, "INE001A01018", "Reliance Industries")

	payload := `[{"id_key":"INE001A01018","aum":100}]`

	first, err := BuildPortfolio(user.ID, "Portfolio 1", payload)
	require.NoError(t, err)
	second, err := BuildPortfolio(user.ID, "Portfolio 1", payload)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same named portfolio")
	require.Len(t, second.Companies, 1)

	var holdings int64
	require.NoError(t, db.DB.Model(&models.PortfolioCompany{}).Count(&holdings).Error)
	assert.EqualValues(t, 1, holdings, "replay does not duplicate holdings")
}

func TestBuildPortfolioDuplicateKeyKeepsLastValue(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice", "alice@example.com")
	createTestCompany(t, "INE001A01018", "Reliance Industries")

	// Same company via ISIN and via name: one row, last AUM wins.
	payload := `[{"id_key":"INE001A01018","aum":100},{"id_key":"Reliance Industries","aum":60}]`
	portfolio, err := BuildPortfolio(user.ID, "Portfolio 1", payload)
	require.NoError(t, err)

	require.Len(t, portfolio.Companies, 1)
	require.NotNil(t, portfolio.Companies[0].AUMValue)
	assert.Equal(t, 60.0, *portfolio.Companies[0].AUMValue)
}

func TestPortfolioNamesAreScopedPerUser(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice", "alice@example.com")
	bob := createTestUser(t, "bob", "bob@example.com")
	createTestCompany(t, "INE001A01018", "Reliance Industries")

	payload := `[{"id_key":"INE001A01018","aum":100}]`

	_, err := BuildPortfolio(alice.ID, "Growth", payload)
	require.NoError(t, err)
	_, err = BuildPortfolio(bob.ID, "Growth", payload)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.DB.Model(&models.Portfolio{}).Where("name = ?", "Growth").Count(&count).Error)
	assert.EqualValues(t, 2, count, "same name allowed across different users")
}

func TestSummarizePortfolio(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice", "alice@example.com")
	createTestCompany(t, "INE001A01018", "Reliance Industries")
	createTestCompany(t, "INE002A01018", "Tata Motors")

	_, err := BuildPortfolio(user.ID, "Growth",
		`[{"id_key":"INE001A01018","aum":75},{"id_key":"INE002A01018","aum":25}]`)
	require.NoError(t, err)

	summary, err := SummarizePortfolio(user.ID, "Growth")
	require.NoError(t, err)

	assert.Equal(t, "100", summary.TotalAUM.String())
	require.Len(t, summary.Holdings, 2)

	weights := make(map[string]string)
	for _, h := range summary.Holdings {
		weights[h.ISIN] = h.WeightPct.String()
	}
	assert.Equal(t, "75", weights["INE001A01018"])
	assert.Equal(t, "25", weights["INE002A01018"])
}

func TestDeletePortfolio(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice", "alice@example.com")
	createTestCompany(t, "INE001A01018", "Reliance Industries")

	_, err := BuildPortfolio(user.ID, "Growth", `[{"id_key":"INE001A01018","aum":100}]`)
	require.NoError(t, err)

	require.NoError(t, DeletePortfolio(user.ID, "Growth"))

	_, err = GetPortfolio(user.ID, "Growth")
	assert.ErrorIs(t, err, ErrNotFound)

	var holdings int64
	require.NoError(t, db.DB.Unscoped().Model(&models.PortfolioCompany{}).Count(&holdings).Error)
	assert.Zero(t, holdings)

	assert.ErrorIs(t, DeletePortfolio(user.ID, "Growth"), ErrNotFound)
}
