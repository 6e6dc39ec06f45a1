package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountClass_Hierarchy(t *testing.T) {
	testCases := []struct {
		class   domain.AccountClass
		section domain.AccountClass
		normal  domain.DebitCredit
		isA     []domain.AccountClass
		isNot   []domain.AccountClass
	}{
		{
			class: domain.ClassCashEquivalent, section: domain.ClassAsset, normal: domain.Debit,
			isA:   []domain.AccountClass{domain.ClassCashEquivalent, domain.ClassCurrentAsset, domain.ClassAsset},
			isNot: []domain.AccountClass{domain.ClassLongtermAsset, domain.ClassLiability},
		},
		{
			class: domain.ClassAccumDepreciation, section: domain.ClassAsset, normal: domain.Credit,
			isA:   []domain.AccountClass{domain.ClassContraAsset, domain.ClassAsset},
			isNot: []domain.AccountClass{domain.ClassCurrentAsset, domain.ClassDepreciation},
		},
		{
			class: domain.ClassDividend, section: domain.ClassEquity, normal: domain.Debit,
			isA:   []domain.AccountClass{domain.ClassDistribution, domain.ClassEquity},
			isNot: []domain.AccountClass{domain.ClassRetainedEarnings},
		},
		{
			class: domain.ClassContraRevenue, section: domain.ClassRevenue, normal: domain.Debit,
			isA: []domain.AccountClass{domain.ClassRevenue},
		},
		{
			class: domain.ClassDepreciation, section: domain.ClassExpense, normal: domain.Debit,
			isA:   []domain.AccountClass{domain.ClassNonCashExpense, domain.ClassExpense},
			isNot: []domain.AccountClass{domain.ClassCashExpense},
		},
		{
			class: domain.ClassCashIncome, section: domain.ClassIncome, normal: domain.Credit,
			isA: []domain.AccountClass{domain.ClassIncome},
		},
		{
			class: "WIDGET", section: domain.ClassOther, normal: domain.Debit,
			isNot: []domain.AccountClass{domain.ClassAsset, domain.ClassOther},
		},
	}

	for _, tc := range testCases {
		t.Run(string(tc.class), func(t *testing.T) {
			assert.Equal(t, tc.section, tc.class.Section())
			assert.Equal(t, tc.normal, tc.class.NormalBalance())
			for _, ancestor := range tc.isA {
				assert.True(t, tc.class.IsA(ancestor), "%s should be a %s", tc.class, ancestor)
			}
			for _, other := range tc.isNot {
				assert.False(t, tc.class.IsA(other), "%s should not be a %s", tc.class, other)
			}
		})
	}
}

func TestSections_CoverEveryClass(t *testing.T) {
	assert.Len(t, domain.Sections, 7)
	for _, class := range domain.ExpandClasses(domain.Sections...) {
		assert.Contains(t, domain.Sections, class.Section())
	}
}

func TestExpandClasses(t *testing.T) {
	assert.Equal(t,
		[]domain.AccountClass{domain.ClassAccumAmortization, domain.ClassAccumDepreciation, domain.ClassContraAsset},
		domain.ExpandClasses(domain.ClassContraAsset))
	assert.Equal(t,
		[]domain.AccountClass{domain.ClassDistribution, domain.ClassDividend, domain.ClassReturnOfCapital},
		domain.ExpandClasses(domain.ClassDistribution))
	assert.Equal(t, []domain.AccountClass{domain.ClassCashIncome, domain.ClassIncome, domain.ClassNonCashIncome, domain.ClassRetainedEarnings},
		domain.ExpandClasses(domain.ClassIncome, domain.ClassRetainedEarnings))
	assert.Empty(t, domain.ExpandClasses("WIDGET"))
}

func TestDebitCredit_Opposite(t *testing.T) {
	assert.Equal(t, domain.Credit, domain.Debit.Opposite())
	assert.Equal(t, domain.Debit, domain.Credit.Opposite())
}

func TestTagFilter(t *testing.T) {
	var none domain.TagFilter
	assert.False(t, none.Active())
	assert.Empty(t, none.Slots())
	assert.True(t, none.Matches(domain.Tags{"ANY"}))

	base := none.With(1, "CONSUMER")
	extended := base.With(1, "ENTERPRISE").With(3, domain.NullTag)

	assert.True(t, base.Active())
	assert.Equal(t, []string{"CONSUMER"}, base[0], "With must not modify its receiver")
	assert.Equal(t, []int{1, 3}, extended.Slots())
	assert.Equal(t, base, base.With(11, "X"), "Out-of-range slots are ignored")

	testCases := []struct {
		name  string
		tags  domain.Tags
		match bool
	}{
		{name: "first alternative", tags: domain.Tags{"CONSUMER"}, match: true},
		{name: "second alternative", tags: domain.Tags{"ENTERPRISE"}, match: true},
		{name: "other value", tags: domain.Tags{"GOV"}, match: false},
		{name: "unset slot 1", tags: domain.Tags{}, match: false},
		{name: "slot 3 set", tags: domain.Tags{"CONSUMER", "", "EAST"}, match: false},
		{name: "slot 3 explicitly null", tags: domain.Tags{"CONSUMER", "", domain.NullTag}, match: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.match, extended.Matches(tc.tags))
		})
	}
}

func TestTags(t *testing.T) {
	tags := domain.Tags{"A", "", "C"}
	assert.Equal(t, "A", tags.Slot(1))
	assert.Equal(t, "C", tags.Slot(3))
	assert.Equal(t, "", tags.Slot(0))
	assert.Equal(t, "", tags.Slot(11))

	normalized := tags.Normalized()
	assert.Equal(t, domain.NullTag, normalized.Slot(2))
	assert.Equal(t, domain.NullTag, normalized.Slot(10))
	assert.Equal(t, "", tags.Slot(2), "Normalized returns a copy")
}

func TestEntryQuery_Matches(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	thru := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	entry := domain.LedgerEntry{
		OrganizationID:  "Company",
		FiscalType:      domain.FiscalActual,
		TransactionDate: from,
		Posted:          true,
		Account:         domain.LedgerAccount{AccountID: "111100", Class: domain.ClassCashEquivalent},
		DebitCredit:     domain.Debit,
		Amount:          decimal.NewFromInt(10),
		Tags:            domain.Tags{"CONSUMER"},
	}
	query := domain.EntryQuery{
		OrganizationID: "Company",
		FromDate:       from,
		ThruDate:       thru,
		FiscalTypes:    []domain.FiscalType{domain.FiscalActual},
		Classes:        domain.ExpandClasses(domain.ClassAsset),
	}

	testCases := []struct {
		name   string
		modify func(e *domain.LedgerEntry, q *domain.EntryQuery)
		match  bool
	}{
		{name: "on the from date", modify: func(*domain.LedgerEntry, *domain.EntryQuery) {}, match: true},
		{name: "on the thru date", modify: func(e *domain.LedgerEntry, _ *domain.EntryQuery) { e.TransactionDate = thru }, match: false},
		{name: "just before thru", modify: func(e *domain.LedgerEntry, _ *domain.EntryQuery) { e.TransactionDate = thru.Add(-time.Nanosecond) }, match: true},
		{name: "before from", modify: func(e *domain.LedgerEntry, _ *domain.EntryQuery) { e.TransactionDate = from.AddDate(0, 0, -1) }, match: false},
		{name: "open ended", modify: func(e *domain.LedgerEntry, q *domain.EntryQuery) {
			e.TransactionDate = from.AddDate(-5, 0, 0)
			q.FromDate, q.ThruDate = time.Time{}, time.Time{}
		}, match: true},
		{name: "unposted", modify: func(e *domain.LedgerEntry, _ *domain.EntryQuery) { e.Posted = false }, match: false},
		{name: "other organization", modify: func(e *domain.LedgerEntry, _ *domain.EntryQuery) { e.OrganizationID = "Other" }, match: false},
		{name: "other fiscal type", modify: func(e *domain.LedgerEntry, _ *domain.EntryQuery) { e.FiscalType = domain.FiscalBudget }, match: false},
		{name: "other class", modify: func(e *domain.LedgerEntry, _ *domain.EntryQuery) { e.Account.Class = domain.ClassRevenue }, match: false},
		{name: "all classes", modify: func(e *domain.LedgerEntry, q *domain.EntryQuery) {
			e.Account.Class = domain.ClassRevenue
			q.Classes = nil
		}, match: true},
		{name: "excluded transaction type", modify: func(e *domain.LedgerEntry, q *domain.EntryQuery) {
			e.TransactionType = domain.TxPeriodClosing
			q.ExcludeTransactionTypes = []domain.TransactionType{domain.TxPeriodClosing}
		}, match: false},
		{name: "not an included transaction type", modify: func(_ *domain.LedgerEntry, q *domain.EntryQuery) {
			q.IncludeTransactionTypes = []domain.TransactionType{domain.TxPeriodClosing}
		}, match: false},
		{name: "tag filter", modify: func(_ *domain.LedgerEntry, q *domain.EntryQuery) {
			q.Tags = q.Tags.With(1, "ENTERPRISE")
		}, match: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, q := entry, query
			tc.modify(&e, &q)
			assert.Equal(t, tc.match, q.Matches(e))
		})
	}
}

func TestCustomTimePeriod_Overlaps(t *testing.T) {
	d := func(s string) time.Time {
		v, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return v
	}
	q1 := domain.CustomTimePeriod{FromDate: d("2024-01-01"), ThruDate: d("2024-04-01")}

	assert.True(t, q1.Overlaps(d("2024-03-31"), d("2024-05-01")))
	assert.True(t, q1.Overlaps(d("2023-01-01"), d("2025-01-01")))
	assert.False(t, q1.Overlaps(d("2024-04-01"), d("2024-07-01")), "Adjacent periods do not overlap")
	assert.False(t, q1.Overlaps(d("2023-10-01"), d("2024-01-01")))
}

func TestIncomeBucket(t *testing.T) {
	bucket, ok := domain.IncomeBucketForType("OPERATING_EXPENSE")
	assert.True(t, ok)
	assert.Equal(t, domain.BucketOperatingExpense, bucket)

	_, ok = domain.IncomeBucketForType("UNCLASSIFIED")
	assert.False(t, ok)

	assert.Equal(t, domain.BucketUnclassified, domain.IncomeBuckets[len(domain.IncomeBuckets)-1])

	body, err := json.Marshal(map[domain.IncomeBucket]int{domain.BucketTaxExpense: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"TAX_EXPENSE":1}`, string(body))
}

func TestFiscalType_Valid(t *testing.T) {
	for _, ft := range domain.FiscalTypes {
		assert.True(t, ft.Valid())
	}
	assert.False(t, domain.FiscalType("DREAM").Valid())
	assert.False(t, domain.FiscalType("").Valid())
}
