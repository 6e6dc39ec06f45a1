package services

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
	"github.com/SscSPs/ledger_reports/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// TrialBalance generates a trial balance covering all activity before AsOfDate
func (s *reportingService) TrialBalance(ctx context.Context, req domain.TrialBalanceRequest) (*domain.TrialBalance, error) {
	fiscalType, err := resolveFiscalType(req.FiscalType)
	if err != nil {
		return nil, err
	}
	req.FiscalType = fiscalType
	if err := requireDate("as-of date", req.AsOfDate); err != nil {
		return nil, err
	}

	var tb *domain.TrialBalance
	err = s.run(ctx, req.OrganizationID, func(ctx context.Context, r *reportRun) error {
		var err error
		tb, err = r.trialBalance(ctx, req)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to generate trial balance",
			slog.String("organization_id", req.OrganizationID),
			slog.String("asOf", req.AsOfDate.Format(time.RFC3339)))
		return nil, err
	}

	roundTrialBalance(s.precision, tb)
	s.logWarnings(ctx, "trial_balance", req.OrganizationID, tb.Warnings)
	s.LogInfo(ctx, "Trial balance generated successfully",
		slog.String("organization_id", req.OrganizationID),
		slog.String("asOf", req.AsOfDate.Format(time.RFC3339)),
		slog.Int("account_count", len(tb.Accounts)),
		slog.Bool("is_balanced", tb.IsBalanced))
	return tb, nil
}

// sides holds the gross debit and credit totals of one account.
type sides struct {
	debits  decimal.Decimal
	credits decimal.Decimal
}

// add books amount on side; a negative amount is booked as its absolute value on the other side.
func (s *sides) add(side domain.DebitCredit, amount decimal.Decimal) {
	if amount.IsNegative() {
		side, amount = side.Opposite(), amount.Neg()
	}
	if side == domain.Debit {
		s.debits = s.debits.Add(amount)
	} else {
		s.credits = s.credits.Add(amount)
	}
}

func (r *reportRun) trialBalance(ctx context.Context, req domain.TrialBalanceRequest) (*domain.TrialBalance, error) {
	retainedEarnings, err := r.defaultAccount(ctx, domain.RoleRetainedEarnings)
	if err != nil {
		return nil, err
	}
	profitLoss, err := r.defaultAccount(ctx, domain.RoleProfitLoss)
	if err != nil {
		return nil, err
	}
	anc, err := r.resolveAnchor(ctx, req.AsOfDate, req.FiscalType, req.Tags)
	if err != nil {
		return nil, err
	}
	lastClosed := anc.Date

	sinceClosing, err := r.incomeStatement(ctx, domain.IncomeStatementRequest{
		OrganizationID: r.organizationID,
		FromDate:       lastClosed,
		ThruDate:       req.AsOfDate,
		FiscalType:     req.FiscalType,
		Tags:           req.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute net income since closing: %w", err)
	}

	accounts := make(map[string]domain.LedgerAccount)
	ledger := make(map[string]*sides)
	book := func(account domain.LedgerAccount) *sides {
		accounts[account.AccountID] = account
		s, ok := ledger[account.AccountID]
		if !ok {
			s = &sides{}
			ledger[account.AccountID] = s
		}
		return s
	}

	// Opening position: the balance sheet as of the last closing, which carries every prior
	// revenue and expense inside retained earnings.
	var warnings []domain.Warning
	if !lastClosed.IsZero() {
		prior, err := r.balanceSheet(ctx, domain.BalanceSheetRequest{
			OrganizationID: r.organizationID,
			AsOfDate:       lastClosed,
			FiscalType:     req.FiscalType,
			Tags:           req.Tags,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to compute opening balance sheet: %w", err)
		}
		for id, amount := range prior.Lines() {
			account := prior.Accounts[id]
			book(account).add(accounting.SectionNormal(account), amount)
		}
		warnings = mergeWarnings(warnings, prior.Warnings)
	}

	activity, err := r.aggregate(ctx, domain.EntryQuery{
		FromDate:                lastClosed,
		ThruDate:                req.AsOfDate,
		FiscalTypes:             []domain.FiscalType{req.FiscalType},
		Tags:                    req.Tags,
		ExcludeTransactionTypes: []domain.TransactionType{domain.TxPeriodClosing},
	}, accounting.AggregateOptions{})
	if err != nil {
		return nil, err
	}
	for _, b := range activity {
		s := book(b.Account)
		s.debits = s.debits.Add(b.Debits)
		s.credits = s.credits.Add(b.Credits)
	}

	// Net income since the closing is credited to retained earnings and debited to profit/loss,
	// once each, whether or not either account had activity of its own.
	ni := sinceClosing.NetIncome
	book(retainedEarnings).add(domain.Credit, ni)
	book(profitLoss).add(domain.Debit, ni)

	tb := &domain.TrialBalance{
		OrganizationID:        r.organizationID,
		AsOfDate:              req.AsOfDate,
		FiscalType:            req.FiscalType,
		LastClosedDate:        lastClosed,
		Accounts:              accounts,
		Sections:              make(map[domain.AccountClass]*domain.TrialBalanceSection, len(domain.Sections)),
		NetIncomeSinceClosing: ni,
	}
	for _, section := range domain.Sections {
		tb.Sections[section] = &domain.TrialBalanceSection{
			Section:  section,
			Balances: make(map[string]decimal.Decimal),
			Debits:   make(map[string]decimal.Decimal),
			Credits:  make(map[string]decimal.Decimal),
		}
	}

	for _, id := range slices.Sorted(maps.Keys(ledger)) {
		account := accounts[id]
		s := ledger[id]
		debits, credits := s.debits, s.credits

		sectionClass := account.Class.Section()
		if sectionClass == domain.ClassOther {
			warnings = append(warnings, domain.Warning{
				Code:      domain.WarningOtherSection,
				Message:   fmt.Sprintf("account %s has class %q outside the account class tree", id, account.Class),
				AccountID: id,
			})
		}
		section := tb.Sections[sectionClass]

		balance := debits.Sub(credits)
		if sectionClass.NormalBalance() == domain.Credit {
			balance = balance.Neg()
		}
		section.Debits[id] = debits
		section.Credits[id] = credits
		section.Balances[id] = balance
		section.TotalDebits = section.TotalDebits.Add(debits)
		section.TotalCredits = section.TotalCredits.Add(credits)
		section.TotalBalance = section.TotalBalance.Add(balance)

		tb.TotalDebits = tb.TotalDebits.Add(debits)
		tb.TotalCredits = tb.TotalCredits.Add(credits)
	}

	tb.TotalBalance = tb.TotalDebits.Sub(tb.TotalCredits)
	tb.IsBalanced = tb.TotalBalance.IsZero()
	if !tb.IsBalanced {
		warnings = append(warnings, domain.Warning{
			Code:    domain.WarningTrialBalanceNonZero,
			Message: fmt.Sprintf("total debits %s and total credits %s differ by %s", tb.TotalDebits, tb.TotalCredits, tb.TotalBalance),
		})
	}
	tb.Warnings = mergeWarnings(warnings, sinceClosing.Warnings)
	return tb, nil
}
