package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_reports/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_reports/internal/core/ports/services"
	"github.com/SscSPs/ledger_reports/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// EncumbranceTestSuite covers the commitment totals and the per-tag income roll-up.
type EncumbranceTestSuite struct {
	suite.Suite
	ledger  *testLedger
	service portssvc.ReportingService
	ctx     context.Context
}

func (suite *EncumbranceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.ledger = newTestLedger(suite.Require())
	suite.service = services.NewReportingService(portsrepo.NewRepositoryProvider(suite.ledger.store))

	encumbrance := txHeader{date: "2025-03-01", fiscalType: domain.FiscalEncumbrance}
	suite.ledger.postTx(encumbrance,
		dr(supplies, "10000", "CONSUMER"),
		dr(supplies, "2600", "ENTERPRISE"),
		dr(supplies, "4500", "CONSUMER"),
		cr(reserve, "14500", "CONSUMER"),
		cr(reserve, "2600", "ENTERPRISE"))
	suite.ledger.postTx(encumbrance,
		dr(supplies, "2000", "CONSUMER"), cr(reserve, "2000", "CONSUMER"),
		dr(supplies, "6000", "GOV"), cr(reserve, "6000", "GOV"),
		dr(supplies, "375", "EDU"), cr(reserve, "375", "EDU"))
	suite.ledger.postTx(encumbrance, cr(reserve, "838.43"))

	// None of these count as committed value.
	suite.ledger.postTx(txHeader{date: "2025-03-01", fiscalType: domain.FiscalEncumbrance, unposted: true},
		dr(supplies, "99999", "CONSUMER"), cr(reserve, "99999", "CONSUMER"))
	suite.ledger.post("2025-03-01", dr(supplies, "5000", "CONSUMER"), cr(cash, "5000", "CONSUMER"))
	suite.ledger.postTx(txHeader{date: "2025-09-01", fiscalType: domain.FiscalEncumbrance},
		dr(supplies, "700", "GOV"), cr(reserve, "700", "GOV"))
}

func (suite *EncumbranceTestSuite) total(tags domain.TagFilter) string {
	total, err := suite.service.TotalEncumbered(suite.ctx, domain.EncumbranceRequest{
		OrganizationID: orgID,
		AsOf:           day("2025-06-01"),
		Tags:           tags,
	})
	suite.Require().NoError(err)
	return total.String()
}

func (suite *EncumbranceTestSuite) TestTotalEncumbered() {
	testCases := []struct {
		name     string
		tags     domain.TagFilter
		expected string
	}{
		{name: "consumer", tags: domain.TagFilter{}.With(1, "CONSUMER"), expected: "33000"},
		{name: "enterprise", tags: domain.TagFilter{}.With(1, "ENTERPRISE"), expected: "5200"},
		{name: "government", tags: domain.TagFilter{}.With(1, "GOV"), expected: "12000"},
		{name: "untagged", tags: domain.TagFilter{}.With(1, domain.NullTag), expected: "838.43"},
		{name: "unfiltered", expected: "51788.43"},
		{name: "either of two values", tags: domain.TagFilter{}.With(1, "GOV", "EDU"), expected: "12750"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, suite.total(tc.tags))
		})
	}
}

func (suite *EncumbranceTestSuite) TestTotalEncumbered_LaterAsOfIncludesNewCommitments() {
	total, err := suite.service.TotalEncumbered(suite.ctx, domain.EncumbranceRequest{
		OrganizationID: orgID,
		AsOf:           day("2025-12-31"),
		Tags:           domain.TagFilter{}.With(1, "GOV"),
	})
	suite.Require().NoError(err)
	suite.Equal("13400", total.String())
}

func (suite *EncumbranceTestSuite) TestEncumbranceByTag() {
	byTag, err := suite.service.EncumbranceByTag(suite.ctx, domain.EncumbranceByTagRequest{
		OrganizationID: orgID,
		AsOf:           day("2025-06-01"),
		Slot:           1,
	})
	suite.Require().NoError(err)

	suite.Equal(expectAmounts(map[string]string{
		"CONSUMER":     "33000",
		"ENTERPRISE":   "5200",
		"GOV":          "12000",
		"EDU":          "750",
		domain.NullTag: "838.43",
	}), amounts(byTag))

	sum := decimal.Zero
	for _, v := range byTag {
		sum = sum.Add(v)
	}
	suite.Equal(suite.total(domain.TagFilter{}), sum.String(), "The breakdown must add up to the total")
}

func (suite *EncumbranceTestSuite) TestNetIncomeByTag() {
	income := func(fiscalType domain.FiscalType, tag, revenue, expense string) {
		h := txHeader{date: "2024-06-01", fiscalType: fiscalType}
		if revenue != "" {
			suite.ledger.postTx(h, dr(receivable, revenue, tag), cr(sales, revenue, tag))
		}
		if expense != "" {
			suite.ledger.postTx(h, dr(supplies, expense, tag), cr(payable, expense, tag))
		}
	}
	income(domain.FiscalBudget, "CONSUMER", "24000", "")
	income(domain.FiscalActual, "CONSUMER", "100000", "103000")
	income(domain.FiscalEncumbrance, "CONSUMER", "", "100000")
	income(domain.FiscalBudget, "ENTERPRISE", "15000", "")
	income(domain.FiscalActual, "ENTERPRISE", "75000", "65100")
	income(domain.FiscalEncumbrance, "ENTERPRISE", "", "100000")
	income(domain.FiscalForecast, "CONSUMER", "5000", "")

	byTag, err := suite.service.NetIncomeByTag(suite.ctx, domain.NetIncomeByTagRequest{
		OrganizationID: orgID,
		FromDate:       day("2024-01-01"),
		ThruDate:       day("2025-01-01"),
		FiscalTypes:    []domain.FiscalType{domain.FiscalBudget, domain.FiscalActual, domain.FiscalEncumbrance},
		Slot:           1,
	})
	suite.Require().NoError(err)

	suite.Equal(expectAmounts(map[string]string{
		"CONSUMER":   "-79000",
		"ENTERPRISE": "-75100",
	}), amounts(byTag))
}

func (suite *EncumbranceTestSuite) TestNetIncomeByTag_DefaultsToActual() {
	suite.ledger.post("2024-06-01", dr(cash, "400", "CONSUMER"), cr(sales, "400", "CONSUMER"))
	suite.ledger.postTx(txHeader{date: "2024-06-01", fiscalType: domain.FiscalBudget},
		dr(cash, "900", "CONSUMER"), cr(sales, "900", "CONSUMER"))

	byTag, err := suite.service.NetIncomeByTag(suite.ctx, domain.NetIncomeByTagRequest{
		OrganizationID: orgID,
		FromDate:       day("2024-01-01"),
		ThruDate:       day("2025-01-01"),
		Slot:           1,
	})
	suite.Require().NoError(err)
	suite.Equal(map[string]string{"CONSUMER": "400"}, amounts(byTag))
}

func TestEncumbranceTestSuite(t *testing.T) {
	suite.Run(t, new(EncumbranceTestSuite))
}
