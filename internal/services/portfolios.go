package services

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const holdingsBatchSize = 100

// resolvedHolding is one validated payload entry bound to a catalog company.
type resolvedHolding struct {
	company models.Company
	aum     float64
}

// BuildPortfolio creates or fully replaces the named portfolio for the user
// from a JSON payload of {"id_key": <ISIN or company name>, "aum": <number>}
// entries. Validation and identifier resolution run up front and report every
// problem in one ValidationError; nothing is persisted unless the whole
// payload is good. Re-running with the same name REPLACES the existing
// holdings, it does not merge.
func BuildPortfolio(userID uint, name string, payload string) (*models.Portfolio, error) {
	name = strings.TrimSpace(name)

	verr := &ValidationError{}
	if name == "" {
		verr.Add("portfolio name is required")
	}

	entries := parseHoldingsPayload(payload, verr)
	if verr.HasProblems() {
		return nil, verr
	}

	holdings := resolveHoldings(entries, verr)
	if verr.HasProblems() {
		return nil, verr
	}

	var portfolio models.Portfolio

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND name = ?", userID, name).First(&portfolio).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			portfolio = models.Portfolio{UserID: userID, Name: name}
			if err := tx.Create(&portfolio).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		// Hard-delete superseded rows so the (portfolio, company) unique
		// index does not trip over soft-deleted leftovers.
		if err := tx.Unscoped().
			Where("portfolio_id = ?", portfolio.ID).
			Delete(&models.PortfolioCompany{}).Error; err != nil {
			return err
		}

		rows := make([]models.PortfolioCompany, 0, len(holdings))
		for _, h := range holdings {
			aum := h.aum
			rows = append(rows, models.PortfolioCompany{
				PortfolioID: portfolio.ID,
				CompanyISIN: h.company.ISIN,
				AUMValue:    &aum,
			})
		}

		if len(rows) == 0 {
			return nil
		}

		return tx.CreateInBatches(rows, holdingsBatchSize).Error
	})

	if err != nil {
		return nil, err
	}

	if err := db.DB.Preload("Companies.Company").First(&portfolio, portfolio.ID).Error; err != nil {
		return nil, err
	}

	return &portfolio, nil
}

// parseHoldingsPayload decodes the raw JSON and validates shape and AUM
// values item by item, collecting every problem.
func parseHoldingsPayload(payload string, verr *ValidationError) []holdingEntry {
	var rawItems []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &rawItems); err != nil {
		verr.Add("companies_data must be a JSON list")
		return nil
	}
	// A JSON null unmarshals into a nil slice without error. Reject it here,
	// or an existing portfolio's holdings would be wiped by the replace.
	if rawItems == nil {
		verr.Add("companies_data must be a JSON list")
		return nil
	}

	entries := make([]holdingEntry, 0, len(rawItems))

	for i, raw := range rawItems {
		var item map[string]json.RawMessage
		if err := json.Unmarshal(raw, &item); err != nil {
			verr.Add("item %d: must be an object with 'id_key' and 'aum'", i)
			continue
		}

		rawKey, hasKey := item["id_key"]
		rawAUM, hasAUM := item["aum"]
		if !hasKey || !hasAUM {
			verr.Add("item %d: must be an object with 'id_key' and 'aum'", i)
			continue
		}

		var idKey string
		if err := json.Unmarshal(rawKey, &idKey); err != nil || strings.TrimSpace(idKey) == "" {
			verr.Add("item %d: 'id_key' must be a non-empty string", i)
			continue
		}
		idKey = strings.TrimSpace(idKey)

		var aum float64
		if err := json.Unmarshal(rawAUM, &aum); err != nil {
			verr.Add("item %d (%s): 'aum' must be a number", i, idKey)
			continue
		}
		if aum < 0 {
			verr.Add("item %d (%s): 'aum' must not be negative", i, idKey)
			continue
		}

		entries = append(entries, holdingEntry{idKey: idKey, aum: aum})
	}

	return entries
}

type holdingEntry struct {
	idKey string
	aum   float64
}

// resolveHoldings binds each id_key to a catalog company, by ISIN first and
// exact company name second. Unresolvable keys are all reported, none are
// silently dropped. A company listed twice keeps its last AUM value.
func resolveHoldings(entries []holdingEntry, verr *ValidationError) []resolvedHolding {
	byISIN := make(map[string]int)
	var holdings []resolvedHolding
	var unresolved []string

	for _, entry := range entries {
		var company models.Company

		err := db.DB.First(&company, "isin = ?", entry.idKey).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = db.DB.First(&company, "company_name = ?", entry.idKey).Error
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			unresolved = append(unresolved, entry.idKey)
			continue
		}
		if err != nil {
			verr.Add("lookup failed for %q: %v", entry.idKey, err)
			continue
		}

		if idx, seen := byISIN[company.ISIN]; seen {
			holdings[idx].aum = entry.aum
			continue
		}

		byISIN[company.ISIN] = len(holdings)
		holdings = append(holdings, resolvedHolding{company: company, aum: entry.aum})
	}

	if len(unresolved) > 0 {
		verr.Add("could not resolve: %s", strings.Join(unresolved, ", "))
	}

	return holdings
}

// ListPortfolios returns the user's portfolios with holdings and company
// data preloaded.
func ListPortfolios(userID uint) ([]models.Portfolio, error) {
	var portfolios []models.Portfolio
	err := db.DB.Preload("Companies.Company").
		Where("user_id = ?", userID).
		Order("name").
		Find(&portfolios).Error
	return portfolios, err
}

// GetPortfolio fetches one of the user's portfolios by name.
func GetPortfolio(userID uint, name string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	err := db.DB.Preload("Companies.Company").
		Where("user_id = ? AND name = ?", userID, strings.TrimSpace(name)).
		First(&portfolio).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &portfolio, nil
}

// DeletePortfolio removes the named portfolio and its holdings.
func DeletePortfolio(userID uint, name string) error {
	portfolio, err := GetPortfolio(userID, name)
	if err != nil {
		return err
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("portfolio_id = ?", portfolio.ID).
			Delete(&models.PortfolioCompany{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Portfolio{}, portfolio.ID).Error
	})
}

// HoldingWeight is one holding's share of the portfolio's total AUM.
type HoldingWeight struct {
	ISIN        string          `json:"isin"`
	CompanyName string          `json:"company_name"`
	AUM         decimal.Decimal `json:"aum"`
	WeightPct   decimal.Decimal `json:"weight_pct"`
}

type PortfolioSummary struct {
	Name     string          `json:"name"`
	TotalAUM decimal.Decimal `json:"total_aum"`
	Holdings []HoldingWeight `json:"holdings"`
}

// SummarizePortfolio totals the portfolio's AUM and computes each holding's
// weight percentage. Decimal arithmetic keeps the percentages stable.
func SummarizePortfolio(userID uint, name string) (*PortfolioSummary, error) {
	portfolio, err := GetPortfolio(userID, name)
	if err != nil {
		return nil, err
	}

	summary := &PortfolioSummary{
		Name:     portfolio.Name,
		TotalAUM: decimal.Zero,
		Holdings: make([]HoldingWeight, 0, len(portfolio.Companies)),
	}

	for _, pc := range portfolio.Companies {
		aum := decimal.Zero
		if pc.AUMValue != nil {
			aum = decimal.NewFromFloat(*pc.AUMValue)
		}
		summary.TotalAUM = summary.TotalAUM.Add(aum)
		summary.Holdings = append(summary.Holdings, HoldingWeight{
			ISIN:        pc.Company.ISIN,
			CompanyName: pc.Company.CompanyName,
			AUM:         aum,
		})
	}

	if summary.TotalAUM.IsPositive() {
		hundred := decimal.NewFromInt(100)
		for i := range summary.Holdings {
			summary.Holdings[i].WeightPct = summary.Holdings[i].AUM.
				Mul(hundred).
				DivRound(summary.TotalAUM, 2)
		}
	}

	return summary, nil
}
