package accounting

import (
	"iter"
	"sort"
	"strings"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AggregateOptions configures Aggregate. A nil Convention means AccountNormal. A nil Precision
// keeps exact sums, for balances that feed further arithmetic before being reported.
type AggregateOptions struct {
	Convention  SignConvention
	Precision   *Precision
	GroupByTags bool
}

// BalanceKey identifies one output value: an account, plus the normalized tag tuple when
// grouping by tags (otherwise the zero Tags value).
type BalanceKey struct {
	AccountID string
	Tags      domain.Tags
}

// Balance is the aggregate for one key. Debits and Credits are gross; Amount is signed.
type Balance struct {
	Account domain.LedgerAccount
	Tags    domain.Tags
	Debits  decimal.Decimal
	Credits decimal.Decimal
	Amount  decimal.Decimal
}

// Balances is the result of Aggregate.
type Balances map[BalanceKey]Balance

// Aggregate sums entries into signed balances. The sequence is consumed once, lazily; unposted
// entries are skipped and, with a Precision, rounding is applied once per output value. The first
// error yielded by the sequence aborts the aggregation and is returned as is.
func Aggregate(entries iter.Seq2[domain.LedgerEntry, error], opts AggregateOptions) (Balances, error) {
	convention := opts.Convention
	if convention == nil {
		convention = AccountNormal
	}

	type running struct {
		account domain.LedgerAccount
		tags    domain.Tags
		debits  decimal.Decimal
		credits decimal.Decimal
		amount  decimal.Decimal
	}
	acc := make(map[BalanceKey]*running)

	for entry, err := range entries {
		if err != nil {
			return nil, err
		}
		if !entry.Posted {
			continue
		}
		key := BalanceKey{AccountID: entry.Account.AccountID}
		if opts.GroupByTags {
			key.Tags = entry.Tags.Normalized()
		}
		r, ok := acc[key]
		if !ok {
			r = &running{account: entry.Account, tags: key.Tags}
			acc[key] = r
		}
		if entry.DebitCredit == domain.Debit {
			r.debits = r.debits.Add(entry.Amount)
		} else {
			r.credits = r.credits.Add(entry.Amount)
		}
		r.amount = r.amount.Add(CalculateSignedAmount(entry, convention(entry.Account)))
	}

	round := func(d decimal.Decimal) decimal.Decimal { return d }
	if opts.Precision != nil {
		round = opts.Precision.Round
	}
	out := make(Balances, len(acc))
	for key, r := range acc {
		out[key] = Balance{
			Account: r.account,
			Tags:    r.tags,
			Debits:  round(r.debits),
			Credits: round(r.credits),
			Amount:  round(r.amount),
		}
	}
	return out, nil
}

// ByAccount collapses tag groups into one amount per account. Aggregate without a Precision when
// the result is collapsed, so rounding happens after the sum.
func (b Balances) ByAccount() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for key, bal := range b {
		out[key.AccountID] = out[key.AccountID].Add(bal.Amount)
	}
	return out
}

// Accounts returns the accounts seen during aggregation.
func (b Balances) Accounts() map[string]domain.LedgerAccount {
	out := make(map[string]domain.LedgerAccount)
	for key, bal := range b {
		out[key.AccountID] = bal.Account
	}
	return out
}

// Total sums every signed amount.
func (b Balances) Total() decimal.Decimal {
	total := decimal.Zero
	for _, bal := range b {
		total = total.Add(bal.Amount)
	}
	return total
}

// SumBySlot groups values by the normalized value of one tag slot. The balances must have been
// aggregated with GroupByTags.
func (b Balances) SumBySlot(slot int, value func(Balance) decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, bal := range b {
		tag := bal.Tags.Normalized().Slot(slot)
		out[tag] = out[tag].Add(value(bal))
	}
	return out
}

// Sorted returns the balances ordered by account id, then tag tuple.
func (b Balances) Sorted() []Balance {
	out := make([]Balance, 0, len(b))
	for _, bal := range b {
		out = append(out, bal)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Account.AccountID != out[j].Account.AccountID {
			return out[i].Account.AccountID < out[j].Account.AccountID
		}
		return strings.Join(out[i].Tags[:], "|") < strings.Join(out[j].Tags[:], "|")
	})
	return out
}
