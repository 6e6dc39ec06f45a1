package dto_test

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
	"github.com/SscSPs/ledger_reports/internal/dto"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse(dto.DateLayout, s)
	return t
}

func TestStartOfEndOf(t *testing.T) {
	start, err := dto.StartOf("2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, day("2024-12-31"), start)

	end, err := dto.EndOf("2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, day("2025-01-01"), end, "An inclusive end date becomes the next day")

	zero, err := dto.EndOf("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = dto.StartOf("31/12/2024")
	assert.ErrorContains(t, err, "YYYY-MM-DD")
	_, err = dto.EndOf("2024-02-30")
	assert.Error(t, err)
}

func TestTagQuery(t *testing.T) {
	values := url.Values{
		"tag1":  {"CONSUMER,ENTERPRISE", "GOV"},
		"tag3":  {"EAST"},
		"tag11": {"IGNORED"},
		"other": {"x"},
	}
	got := dto.TagQuery(func(key string) []string { return values[key] })
	assert.Equal(t, map[int][]string{
		1: {"CONSUMER", "ENTERPRISE", "GOV"},
		3: {"EAST"},
	}, got)
}

func TestFieldErrors(t *testing.T) {
	v := validator.New()
	err := v.Struct(struct {
		Slot int    `validate:"required"`
		Type string `validate:"oneof=ACTUAL BUDGET"`
	}{Type: "DREAM"})
	require.Error(t, err)

	assert.ElementsMatch(t, []string{"Slot: failed required", "Type: failed oneof=ACTUAL BUDGET"}, dto.FieldErrors(err))
	assert.Equal(t, []string{"boom"}, dto.FieldErrors(errors.New("boom")))
}

func TestToIncomeStatementResponse(t *testing.T) {
	sales := domain.LedgerAccount{AccountID: "400000", Name: "Sales", Class: domain.ClassRevenue}
	stmt := &domain.IncomeStatement{
		OrganizationID: "Company",
		FromDate:       day("2024-01-01"),
		ThruDate:       day("2025-01-01"),
		FiscalType:     domain.FiscalActual,
		ByBucket: map[domain.IncomeBucket][]domain.AccountLine{
			domain.BucketRevenue: {{Account: sales, Amount: decimal.NewFromInt(100)}},
		},
		BucketTotals: map[domain.IncomeBucket]decimal.Decimal{domain.BucketRevenue: decimal.NewFromInt(100)},
		TagBalances: []domain.TagBalance{
			{Account: sales, Tags: domain.Tags{"CONSUMER"}.Normalized(), Amount: decimal.NewFromInt(100)},
		},
		NetIncome:               decimal.NewFromInt(100),
		RetainedEarningsAccount: domain.LedgerAccount{AccountID: "336000"},
		Warnings:                []domain.Warning{{Code: domain.WarningTagSlotUnconfigured, Message: "tag slot 2"}},
	}

	resp := dto.ToIncomeStatementResponse(stmt)

	assert.Equal(t, "2024-01-01", resp.FromDate)
	assert.Equal(t, "2024-12-31", resp.ThruDate)
	require.Len(t, resp.Buckets, 6, "Empty unclassified bucket is dropped")
	assert.Equal(t, "REVENUE", resp.Buckets[0].Bucket)
	assert.Equal(t, "TAX_EXPENSE", resp.Buckets[5].Bucket)
	assert.NotNil(t, resp.Buckets[1].Accounts, "Empty buckets render as empty lists")
	require.Len(t, resp.TagBalances, 1)
	assert.Equal(t, "CONSUMER", resp.TagBalances[0].Tags[0])
	assert.Len(t, resp.TagBalances[0].Tags, domain.TagSlotCount)
	assert.Equal(t, "336000", resp.RetainedEarningsAccountID)
	assert.Equal(t, "TAG_SLOT_UNCONFIGURED", resp.Warnings[0].Code)

	stmt.ByBucket[domain.BucketUnclassified] = []domain.AccountLine{{Account: domain.LedgerAccount{AccountID: "999000"}, Amount: decimal.NewFromInt(-3)}}
	resp = dto.ToIncomeStatementResponse(stmt)
	require.Len(t, resp.Buckets, 7)
	assert.Equal(t, "UNCLASSIFIED", resp.Buckets[6].Bucket)
}

func TestToBalanceSheetResponse(t *testing.T) {
	sheet := &domain.BalanceSheet{
		OrganizationID: "Company",
		AsOfDate:       day("2025-01-01"),
		Accounts: map[string]domain.LedgerAccount{
			"120000": {AccountID: "120000", Name: "Receivable"},
			"111100": {AccountID: "111100", Name: "Cash"},
		},
		AssetBalances: map[string]decimal.Decimal{
			"120000": decimal.NewFromInt(20),
			"111100": decimal.NewFromInt(80),
		},
		TotalAssets:      decimal.NewFromInt(100),
		TotalEquity:      decimal.NewFromInt(100),
		InterimNetIncome: decimal.NewFromInt(7),
		IsBalanced:       true,
	}

	resp := dto.ToBalanceSheetResponse(sheet)

	assert.Equal(t, "2024-12-31", resp.AsOf)
	require.Len(t, resp.Assets, 2)
	assert.Equal(t, "111100", resp.Assets[0].AccountID, "Accounts are sorted by id")
	assert.Equal(t, "Cash", resp.Assets[0].Name)
	assert.Empty(t, resp.Liabilities)
	assert.True(t, resp.Summary.TotalAssets.Equal(decimal.NewFromInt(100)))
	assert.True(t, resp.Summary.InterimNetIncome.Equal(decimal.NewFromInt(7)))
	assert.NotNil(t, resp.Warnings)
}

func TestToTrialBalanceResponse_SectionOrder(t *testing.T) {
	section := func(class domain.AccountClass, id string) *domain.TrialBalanceSection {
		return &domain.TrialBalanceSection{
			Section:  class,
			Balances: map[string]decimal.Decimal{id: decimal.NewFromInt(1)},
			Debits:   map[string]decimal.Decimal{id: decimal.NewFromInt(1)},
			Credits:  map[string]decimal.Decimal{},
		}
	}
	tb := &domain.TrialBalance{
		AsOfDate:       day("2025-01-01"),
		LastClosedDate: day("2024-07-01"),
		Sections: map[domain.AccountClass]*domain.TrialBalanceSection{
			domain.ClassOther:   section(domain.ClassOther, "999999"),
			domain.ClassExpense: section(domain.ClassExpense, "600000"),
			domain.ClassAsset:   section(domain.ClassAsset, "111100"),
		},
	}

	resp := dto.ToTrialBalanceResponse(tb)

	require.Len(t, resp.Sections, 3)
	assert.Equal(t, []string{"ASSET", "EXPENSE", "OTHER"}, []string{resp.Sections[0].Section, resp.Sections[1].Section, resp.Sections[2].Section})
	assert.True(t, resp.Sections[0].Rows[0].Credit.IsZero())
	require.NotNil(t, resp.LastClosedDate)
	assert.Equal(t, day("2024-07-01"), *resp.LastClosedDate)
}

func TestToComparisonResponse(t *testing.T) {
	cmp := &domain.Comparison[domain.CashFlowStatement]{
		Base:    &domain.CashFlowStatement{FromDate: day("2024-01-01"), ThruDate: day("2024-04-01")},
		Compare: &domain.CashFlowStatement{FromDate: day("2024-04-01"), ThruDate: day("2024-07-01")},
		Delta: map[string]decimal.Decimal{
			domain.CashFlowOperating:  decimal.NewFromInt(5),
			domain.CashFlowEndingCash: decimal.NewFromInt(-2),
		},
	}

	resp := dto.ToComparisonResponse(cmp, dto.ToCashFlowResponse)

	assert.Equal(t, "2024-03-31", resp.Base.ThruDate)
	assert.Equal(t, "2024-06-30", resp.Compare.ThruDate)
	require.Len(t, resp.Delta, 2)
	assert.Equal(t, domain.CashFlowEndingCash, resp.Delta[0].Key)
	assert.Equal(t, domain.CashFlowOperating, resp.Delta[1].Key)
}

func TestToTagAmountsResponse(t *testing.T) {
	resp := dto.ToTagAmountsResponse("Company", 1, map[string]decimal.Decimal{
		"GOV":          decimal.NewFromInt(12000),
		domain.NullTag: decimal.RequireFromString("838.43"),
		"CONSUMER":     decimal.NewFromInt(33000),
	})

	assert.Equal(t, 1, resp.Slot)
	require.Len(t, resp.Amounts, 3)
	assert.Equal(t, []string{"CONSUMER", "GOV", domain.NullTag},
		[]string{resp.Amounts[0].Tag, resp.Amounts[1].Tag, resp.Amounts[2].Tag})
	assert.Equal(t, "45838.43", resp.Total.String())

	empty := dto.ToTagAmountsResponse("Company", 2, nil)
	assert.NotNil(t, empty.Amounts)
	assert.True(t, empty.Total.IsZero())
}
