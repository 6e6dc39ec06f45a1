package domain

import "sort"

// DebitCredit indicates which side of the ledger an entry (or a normal balance) sits on.
type DebitCredit string

const (
	Debit  DebitCredit = "DEBIT"
	Credit DebitCredit = "CREDIT"
)

// Opposite returns the other side of the ledger.
func (dc DebitCredit) Opposite() DebitCredit {
	if dc == Debit {
		return Credit
	}
	return Debit
}

// AccountClass is a node of the fixed account-class hierarchy.
type AccountClass string

const (
	ClassAsset             AccountClass = "ASSET"
	ClassCurrentAsset      AccountClass = "CURRENT_ASSET"
	ClassCashEquivalent    AccountClass = "CASH_EQUIVALENT"
	ClassInventoryAsset    AccountClass = "INVENTORY_ASSET"
	ClassReceivable        AccountClass = "RECEIVABLE"
	ClassLongtermAsset     AccountClass = "LONGTERM_ASSET"
	ClassContraAsset       AccountClass = "CONTRA_ASSET"
	ClassAccumDepreciation AccountClass = "ACCUM_DEPRECIATION"
	ClassAccumAmortization AccountClass = "ACCUM_AMORTIZATION"

	ClassLiability         AccountClass = "LIABILITY"
	ClassCurrentLiability  AccountClass = "CURRENT_LIABILITY"
	ClassLongtermLiability AccountClass = "LONGTERM_LIABILITY"

	ClassEquity           AccountClass = "EQUITY"
	ClassOwnersEquity     AccountClass = "OWNERS_EQUITY"
	ClassRetainedEarnings AccountClass = "RETAINED_EARNINGS"
	ClassDistribution     AccountClass = "DISTRIBUTION"
	ClassReturnOfCapital  AccountClass = "RETURN_OF_CAPITAL"
	ClassDividend         AccountClass = "DIVIDEND"

	ClassRevenue       AccountClass = "REVENUE"
	ClassContraRevenue AccountClass = "CONTRA_REVENUE"

	ClassExpense         AccountClass = "EXPENSE"
	ClassCashExpense     AccountClass = "CASH_EXPENSE"
	ClassNonCashExpense  AccountClass = "NON_CASH_EXPENSE"
	ClassDepreciation    AccountClass = "DEPRECIATION"
	ClassAmortization    AccountClass = "AMORTIZATION"
	ClassInventoryAdjust AccountClass = "INVENTORY_ADJUST"

	ClassIncome        AccountClass = "INCOME"
	ClassCashIncome    AccountClass = "CASH_INCOME"
	ClassNonCashIncome AccountClass = "NON_CASH_INCOME"

	// ClassOther is the section of any class outside the tree. It is debit-normal.
	ClassOther AccountClass = "OTHER"
)

type classNode struct {
	parent AccountClass
	normal DebitCredit
}

var classTree = map[AccountClass]classNode{
	ClassAsset:             {"", Debit},
	ClassCurrentAsset:      {ClassAsset, Debit},
	ClassCashEquivalent:    {ClassCurrentAsset, Debit},
	ClassInventoryAsset:    {ClassCurrentAsset, Debit},
	ClassReceivable:        {ClassCurrentAsset, Debit},
	ClassLongtermAsset:     {ClassAsset, Debit},
	ClassContraAsset:       {ClassAsset, Credit},
	ClassAccumDepreciation: {ClassContraAsset, Credit},
	ClassAccumAmortization: {ClassContraAsset, Credit},

	ClassLiability:         {"", Credit},
	ClassCurrentLiability:  {ClassLiability, Credit},
	ClassLongtermLiability: {ClassLiability, Credit},

	ClassEquity:           {"", Credit},
	ClassOwnersEquity:     {ClassEquity, Credit},
	ClassRetainedEarnings: {ClassEquity, Credit},
	ClassDistribution:     {ClassEquity, Debit},
	ClassReturnOfCapital:  {ClassDistribution, Debit},
	ClassDividend:         {ClassDistribution, Debit},

	ClassRevenue:       {"", Credit},
	ClassContraRevenue: {ClassRevenue, Debit},

	ClassExpense:         {"", Debit},
	ClassCashExpense:     {ClassExpense, Debit},
	ClassNonCashExpense:  {ClassExpense, Debit},
	ClassDepreciation:    {ClassNonCashExpense, Debit},
	ClassAmortization:    {ClassNonCashExpense, Debit},
	ClassInventoryAdjust: {ClassNonCashExpense, Debit},

	ClassIncome:        {"", Credit},
	ClassCashIncome:    {ClassIncome, Credit},
	ClassNonCashIncome: {ClassIncome, Credit},
}

// Sections lists the seven top-level buckets every account falls into, in report order.
var Sections = []AccountClass{ClassAsset, ClassLiability, ClassEquity, ClassRevenue, ClassExpense, ClassIncome, ClassOther}

// Known reports whether the class is part of the hierarchy.
func (c AccountClass) Known() bool {
	_, ok := classTree[c]
	return ok
}

// IsA reports whether c equals ancestor or descends from it.
func (c AccountClass) IsA(ancestor AccountClass) bool {
	for cur := c; cur != ""; cur = classTree[cur].parent {
		if cur == ancestor {
			return true
		}
		if !cur.Known() {
			return false
		}
	}
	return false
}

// IsAny reports whether c descends from any of the given classes.
func (c AccountClass) IsAny(ancestors ...AccountClass) bool {
	for _, a := range ancestors {
		if c.IsA(a) {
			return true
		}
	}
	return false
}

// Section returns the top-level class of c, or ClassOther when c is outside the tree.
func (c AccountClass) Section() AccountClass {
	if !c.Known() {
		return ClassOther
	}
	cur := c
	for classTree[cur].parent != "" {
		cur = classTree[cur].parent
	}
	return cur
}

// NormalBalance is the side on which the class increases. Unknown classes are debit-normal.
func (c AccountClass) NormalBalance() DebitCredit {
	if node, ok := classTree[c]; ok {
		return node.normal
	}
	return Debit
}

// ExpandClasses returns the given classes plus all of their descendants, sorted.
func ExpandClasses(classes ...AccountClass) []AccountClass {
	seen := make(map[AccountClass]bool)
	for class := range classTree {
		if class.IsAny(classes...) {
			seen[class] = true
		}
	}
	out := make([]AccountClass, 0, len(seen))
	for class := range seen {
		out = append(out, class)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LedgerAccount is a chart-of-accounts entry. Reference data, never mutated by the engine.
type LedgerAccount struct {
	AccountID     string       `json:"accountID"`
	Name          string       `json:"name"`
	AccountTypeID string       `json:"accountTypeID"`
	Class         AccountClass `json:"class"`
}

// NormalBalance returns the side on which the account increases.
func (a LedgerAccount) NormalBalance() DebitCredit {
	return a.Class.NormalBalance()
}

// AccountTypeNode is one node of the ledger-account-type tree.
type AccountTypeNode struct {
	AccountTypeID string `json:"accountTypeID"`
	ParentTypeID  string `json:"parentTypeID"`
	Description   string `json:"description"`
}

// DefaultAccountRole names an organization-level account designation.
type DefaultAccountRole string

const (
	RoleRetainedEarnings DefaultAccountRole = "RETAINED_EARNINGS"
	RoleProfitLoss       DefaultAccountRole = "PROFIT_LOSS"
)
