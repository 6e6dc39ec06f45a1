package accounting_test

import (
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/SscSPs/ledger_reports/internal/apperrors"
	"github.com/SscSPs/ledger_reports/internal/core/domain"
	"github.com/SscSPs/ledger_reports/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cash     = domain.LedgerAccount{AccountID: "111100", Class: domain.ClassCashEquivalent}
	accumDep = domain.LedgerAccount{AccountID: "171900", Class: domain.ClassAccumDepreciation}
	sales    = domain.LedgerAccount{AccountID: "400000", AccountTypeID: "REVENUE", Class: domain.ClassRevenue}
	rent     = domain.LedgerAccount{AccountID: "610000", AccountTypeID: "OPERATING_EXPENSE", Class: domain.ClassCashExpense}
)

func entry(account domain.LedgerAccount, side domain.DebitCredit, amount string, tags ...string) domain.LedgerEntry {
	var t domain.Tags
	copy(t[:], tags)
	return domain.LedgerEntry{
		Posted:      true,
		Account:     account,
		DebitCredit: side,
		Amount:      decimal.RequireFromString(amount),
		Tags:        t,
	}
}

func seq(entries ...domain.LedgerEntry) iter.Seq2[domain.LedgerEntry, error] {
	return func(yield func(domain.LedgerEntry, error) bool) {
		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
	}
}

func TestAggregate(t *testing.T) {
	unposted := entry(cash, domain.Debit, "999")
	unposted.Posted = false

	balances, err := accounting.Aggregate(seq(
		entry(cash, domain.Debit, "100"),
		entry(cash, domain.Credit, "30"),
		unposted,
		entry(accumDep, domain.Credit, "15"),
		entry(sales, domain.Credit, "100"),
	), accounting.AggregateOptions{})
	require.NoError(t, err)

	byAccount := balances.ByAccount()
	assert.Equal(t, "70", byAccount[cash.AccountID].String())
	assert.Equal(t, "15", byAccount[accumDep.AccountID].String(), "Account-normal by default")
	assert.Equal(t, "100", byAccount[sales.AccountID].String())

	cashBalance := balances[accounting.BalanceKey{AccountID: cash.AccountID}]
	assert.Equal(t, "100", cashBalance.Debits.String())
	assert.Equal(t, "30", cashBalance.Credits.String())
	assert.Equal(t, cash, balances.Accounts()[cash.AccountID])
}

func TestAggregate_Conventions(t *testing.T) {
	entries := []domain.LedgerEntry{
		entry(accumDep, domain.Credit, "15"),
		entry(sales, domain.Credit, "100"),
		entry(rent, domain.Debit, "40"),
	}
	testCases := []struct {
		name       string
		convention accounting.SignConvention
		expected   map[string]string
	}{
		{name: "account normal", convention: accounting.AccountNormal, expected: map[string]string{"171900": "15", "400000": "100", "610000": "40"}},
		{name: "section normal", convention: accounting.SectionNormal, expected: map[string]string{"171900": "-15", "400000": "100", "610000": "40"}},
		{name: "income normal", convention: accounting.IncomeNormal, expected: map[string]string{"171900": "15", "400000": "100", "610000": "-40"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			balances, err := accounting.Aggregate(seq(entries...), accounting.AggregateOptions{Convention: tc.convention})
			require.NoError(t, err)
			got := make(map[string]string)
			for id, amount := range balances.ByAccount() {
				got[id] = amount.String()
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestAggregate_RoundsOncePerValue(t *testing.T) {
	balances, err := accounting.Aggregate(seq(
		entry(cash, domain.Debit, "0.004"),
		entry(cash, domain.Debit, "0.004"),
		entry(cash, domain.Debit, "0.004"),
	), accounting.AggregateOptions{Precision: &accounting.Precision{Scale: 2, Mode: accounting.RoundHalfUp}})
	require.NoError(t, err)
	assert.Equal(t, "0.01", balances.Total().String())
}

func TestAggregate_ExactWithoutPrecision(t *testing.T) {
	entries := seq(
		entry(sales, domain.Credit, "0.4", "CONSUMER"),
		entry(sales, domain.Credit, "0.4", "ENTERPRISE"),
	)
	p := accounting.Precision{Scale: 0, Mode: accounting.RoundHalfUp}

	rounded, err := accounting.Aggregate(entries, accounting.AggregateOptions{Precision: &p, GroupByTags: true})
	require.NoError(t, err)
	assert.Equal(t, "0", rounded.ByAccount()[sales.AccountID].String(), "Per-tag rounding loses the fractions")

	exact, err := accounting.Aggregate(entries, accounting.AggregateOptions{GroupByTags: true})
	require.NoError(t, err)
	assert.Equal(t, "0.8", exact.ByAccount()[sales.AccountID].String())
	assert.Equal(t, "1", p.Round(exact.Total()).String())
}

func TestPrecision_RoundLines(t *testing.T) {
	lines := map[string]decimal.Decimal{"a": decimal.RequireFromString("1.005"), "b": decimal.RequireFromString("-2.344")}
	accounting.DefaultPrecision().RoundLines(lines)
	assert.Equal(t, "1.01", lines["a"].String())
	assert.Equal(t, "-2.34", lines["b"].String())
}

func TestAggregate_GroupByTags(t *testing.T) {
	balances, err := accounting.Aggregate(seq(
		entry(sales, domain.Credit, "100", "CONSUMER"),
		entry(sales, domain.Credit, "50", "CONSUMER"),
		entry(sales, domain.Credit, "70", "ENTERPRISE"),
		entry(sales, domain.Credit, "5"),
		entry(rent, domain.Debit, "40", "CONSUMER", "EAST"),
	), accounting.AggregateOptions{Convention: accounting.IncomeNormal, GroupByTags: true})
	require.NoError(t, err)

	require.Len(t, balances, 4)
	consumer := domain.Tags{"CONSUMER"}.Normalized()
	assert.Equal(t, "150", balances[accounting.BalanceKey{AccountID: sales.AccountID, Tags: consumer}].Amount.String())

	bySlot := balances.SumBySlot(1, func(b accounting.Balance) decimal.Decimal { return b.Amount })
	assert.Equal(t, "110", bySlot["CONSUMER"].String())
	assert.Equal(t, "70", bySlot["ENTERPRISE"].String())
	assert.Equal(t, "5", bySlot[domain.NullTag].String())

	bySlot2 := balances.SumBySlot(2, func(b accounting.Balance) decimal.Decimal { return b.Amount })
	assert.Equal(t, "-40", bySlot2["EAST"].String())
	assert.Equal(t, "225", bySlot2[domain.NullTag].String())

	sorted := balances.Sorted()
	ids := make([]string, 0, len(sorted))
	for _, b := range sorted {
		ids = append(ids, b.Account.AccountID+"/"+b.Tags.Slot(1))
	}
	assert.Equal(t, []string{"400000/CONSUMER", "400000/ENTERPRISE", "400000/" + domain.NullTag, "610000/CONSUMER"}, ids)
	assert.Equal(t, "185", balances.Total().String())
	assert.Equal(t, "185", accounting.Sum(balances.ByAccount()).String())
}

func TestAggregate_PropagatesSourceError(t *testing.T) {
	boom := errors.New("connection reset")
	calls := 0
	source := func(yield func(domain.LedgerEntry, error) bool) {
		calls++
		if !yield(entry(cash, domain.Debit, "1"), nil) {
			return
		}
		if !yield(domain.LedgerEntry{}, boom) {
			return
		}
		yield(entry(cash, domain.Debit, "1"), nil)
	}

	balances, err := accounting.Aggregate(source, accounting.AggregateOptions{})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, balances)
	assert.Equal(t, 1, calls, "The sequence is consumed once")
}

func TestPrecision_Round(t *testing.T) {
	testCases := []struct {
		mode     accounting.RoundingMode
		positive string
		negative string
	}{
		{mode: accounting.RoundHalfUp, positive: "2.35", negative: "-2.35"},
		{mode: accounting.RoundHalfEven, positive: "2.34", negative: "-2.34"},
		{mode: accounting.RoundDown, positive: "2.34", negative: "-2.34"},
		{mode: accounting.RoundUp, positive: "2.35", negative: "-2.35"},
		{mode: accounting.RoundCeiling, positive: "2.35", negative: "-2.34"},
		{mode: accounting.RoundFloor, positive: "2.34", negative: "-2.35"},
	}

	value := decimal.RequireFromString("2.345")
	for _, tc := range testCases {
		t.Run(string(tc.mode), func(t *testing.T) {
			p := accounting.Precision{Scale: 2, Mode: tc.mode}
			assert.Equal(t, tc.positive, p.Round(value).String())
			assert.Equal(t, tc.negative, p.Round(value.Neg()).String())
		})
	}

	assert.Equal(t, "2.35", accounting.Precision{}.Round(value).String(), "Zero precision falls back to the default")
	assert.Equal(t, "2", accounting.Precision{Scale: 0, Mode: accounting.RoundHalfEven}.Round(decimal.RequireFromString("2.5")).String())
}

func TestParseRoundingMode(t *testing.T) {
	mode, err := accounting.ParseRoundingMode(" half_even ")
	require.NoError(t, err)
	assert.Equal(t, accounting.RoundHalfEven, mode)

	_, err = accounting.ParseRoundingMode("banker")
	assert.Error(t, err)
}

func TestSignedAmounts(t *testing.T) {
	debit := entry(cash, domain.Debit, "12.50")
	assert.Equal(t, "12.5", accounting.CalculateSignedAmount(debit, domain.Debit).String())
	assert.Equal(t, "-12.5", accounting.CalculateSignedAmount(debit, domain.Credit).String())

	ten := decimal.NewFromInt(10)
	assert.True(t, accounting.ToSide(ten, domain.Credit, domain.Credit).Equal(ten))
	assert.True(t, accounting.ToSide(ten, domain.Credit, domain.Debit).Equal(ten.Neg()))
}

func TestClassificationTree(t *testing.T) {
	tree := accounting.NewClassificationTree([]domain.AccountTypeNode{
		{AccountTypeID: "REVENUE"},
		{AccountTypeID: "OPERATING_EXPENSE"},
		{AccountTypeID: "OTHER_INCOME"},
		{AccountTypeID: "SALARIES", ParentTypeID: "OPERATING_EXPENSE"},
		{AccountTypeID: "PAYROLL_TAX", ParentTypeID: "SALARIES"},
		{AccountTypeID: "ORPHAN", ParentTypeID: "MISC"},
	})

	testCases := []struct {
		name       string
		account    domain.LedgerAccount
		bucket     domain.IncomeBucket
		classified bool
		reason     string
	}{
		{name: "root type", account: sales, bucket: domain.BucketRevenue, classified: true},
		{name: "contra revenue", account: domain.LedgerAccount{AccountID: "410000", AccountTypeID: "REVENUE", Class: domain.ClassContraRevenue}, bucket: domain.BucketRevenue, classified: true},
		{name: "nested two levels", account: domain.LedgerAccount{AccountID: "601100", AccountTypeID: "PAYROLL_TAX", Class: domain.ClassCashExpense}, bucket: domain.BucketOperatingExpense, classified: true},
		{name: "other income", account: domain.LedgerAccount{AccountID: "701000", AccountTypeID: "OTHER_INCOME", Class: domain.ClassCashIncome}, bucket: domain.BucketOtherIncome, classified: true},
		{name: "no type", account: domain.LedgerAccount{AccountID: "699999", Class: domain.ClassCashExpense}, reason: "no account type"},
		{name: "type outside the roots", account: domain.LedgerAccount{AccountID: "699998", AccountTypeID: "ORPHAN", Class: domain.ClassCashExpense}, reason: "does not roll up"},
		{name: "expense class under revenue", account: domain.LedgerAccount{AccountID: "400100", AccountTypeID: "REVENUE", Class: domain.ClassCashExpense}, reason: "has class"},
		{name: "income class under expense", account: domain.LedgerAccount{AccountID: "610100", AccountTypeID: "SALARIES", Class: domain.ClassCashIncome}, reason: "has class"},
		{name: "root type not configured", account: domain.LedgerAccount{AccountID: "900000", AccountTypeID: "TAX_EXPENSE", Class: domain.ClassCashExpense}, reason: "does not roll up"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tree.Classify(tc.account)
			assert.Equal(t, tc.classified, got.Classified)
			if tc.classified {
				assert.Equal(t, tc.bucket, got.Bucket)
				assert.Empty(t, got.Reason)
			} else {
				assert.Equal(t, domain.BucketUnclassified, got.Bucket)
				assert.Contains(t, got.Reason, tc.reason)
			}
		})
	}
}

func TestDiff(t *testing.T) {
	a := map[string]decimal.Decimal{"x": decimal.NewFromInt(10), "y": decimal.NewFromInt(5)}
	b := map[string]decimal.Decimal{"x": decimal.NewFromInt(12), "z": decimal.NewFromInt(3)}

	delta := accounting.Diff(a, b)
	require.Len(t, delta, 3)
	assert.Equal(t, "2", delta["x"].String())
	assert.Equal(t, "-5", delta["y"].String())
	assert.Equal(t, "3", delta["z"].String())
	assert.Empty(t, accounting.Diff(nil, nil))
}

func TestParseTagFilter(t *testing.T) {
	filter, err := accounting.ParseTagFilter(map[int][]string{
		1: {"CONSUMER", " ENTERPRISE ", "CONSUMER", ""},
		3: {"  "},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"CONSUMER", "ENTERPRISE"}, filter[0])
	assert.Equal(t, []int{1}, filter.Slots(), "Blank-only slots stay unrestricted")

	for _, slot := range []int{0, 11, -1} {
		_, err := accounting.ParseTagFilter(map[int][]string{slot: {"X"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		reason, ok := apperrors.ReasonOf(err)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ReasonInvalidTagSlot, reason)
	}

	assert.NoError(t, accounting.ValidateTagSlot(1))
	assert.NoError(t, accounting.ValidateTagSlot(domain.TagSlotCount))
}

func TestResolveTagFilter(t *testing.T) {
	filter := domain.TagFilter{}.With(1, "CONSUMER").With(4, "EAST")

	warnings := accounting.ResolveTagFilter(filter, domain.TagTypeMap{1: "DIVISION_TAG"})
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarningTagSlotUnconfigured, warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "slot 4")

	assert.Empty(t, accounting.ResolveTagFilter(filter, domain.TagTypeMap{1: "DIVISION_TAG", 4: "REGION_TAG"}))
	assert.Empty(t, accounting.ResolveTagFilter(domain.TagFilter{}, nil))
	assert.True(t, slices.Equal(filter.Slots(), []int{1, 4}))
}
