package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_reports/internal/core/domain"
)

// Classification is the outcome of classifying an account into an income-statement bucket.
// When Classified is false the bucket is always BucketUnclassified and Reason says why.
type Classification struct {
	Bucket     domain.IncomeBucket
	Classified bool
	Reason     string
}

// ClassificationTree maps every account type to the income-statement root it descends from.
// Built once from the account-type adjacency and read-only afterwards.
type ClassificationTree struct {
	buckets map[string]domain.IncomeBucket
}

// NewClassificationTree flattens the type hierarchy below each bucket root. Roots are the
// configured types whose id names an income-statement bucket.
func NewClassificationTree(nodes []domain.AccountTypeNode) *ClassificationTree {
	children := make(map[string][]string)
	var roots []string
	for _, n := range nodes {
		if n.ParentTypeID != "" {
			children[n.ParentTypeID] = append(children[n.ParentTypeID], n.AccountTypeID)
		}
		if _, ok := domain.IncomeBucketForType(n.AccountTypeID); ok {
			roots = append(roots, n.AccountTypeID)
		}
	}

	buckets := make(map[string]domain.IncomeBucket)
	for _, root := range roots {
		bucket, _ := domain.IncomeBucketForType(root)
		queue := []string{root}
		for len(queue) > 0 {
			typeID := queue[0]
			queue = queue[1:]
			if _, seen := buckets[typeID]; seen {
				continue
			}
			buckets[typeID] = bucket
			queue = append(queue, children[typeID]...)
		}
	}
	return &ClassificationTree{buckets: buckets}
}

// Classify resolves the account's bucket. It never fails: unknown types and class mismatches
// come back unclassified.
func (t *ClassificationTree) Classify(account domain.LedgerAccount) Classification {
	if account.AccountTypeID == "" {
		return unclassified("account %s has no account type", account.AccountID)
	}
	bucket, ok := t.buckets[account.AccountTypeID]
	if !ok {
		return unclassified("account type %s of account %s does not roll up to an income-statement root", account.AccountTypeID, account.AccountID)
	}

	switch bucket {
	case domain.BucketRevenue, domain.BucketOtherIncome:
		if !account.Class.IsAny(domain.ClassRevenue, domain.ClassIncome) {
			return unclassified("account %s is in bucket %s but has class %s", account.AccountID, bucket, account.Class)
		}
	default:
		if !account.Class.IsA(domain.ClassExpense) {
			return unclassified("account %s is in bucket %s but has class %s", account.AccountID, bucket, account.Class)
		}
	}
	return Classification{Bucket: bucket, Classified: true}
}

func unclassified(format string, args ...any) Classification {
	return Classification{Bucket: domain.BucketUnclassified, Reason: fmt.Sprintf(format, args...)}
}
