package ledger

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Free-text description clauses are the legacy join key between payments,
// deposits and the invoices they satisfied. These helpers extract and strip
// that evidence; explicit PaymentApplication rows are preferred wherever they
// exist.
var (
	appliedAmountRe  = regexp.MustCompile(`(?i)applied\s+\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)\s+to\s+invoice\s+#?([A-Za-z0-9][A-Za-z0-9/_-]*)`)
	appliedPlainRe   = regexp.MustCompile(`(?i)applied(?:\s+credit)?\s+to\s+invoice\s+#?([A-Za-z0-9][A-Za-z0-9/_-]*)`)
	depositCreditRe  = regexp.MustCompile(`(?i)applied\s+credit\s+from\s+deposit\s+#?([A-Za-z0-9][A-Za-z0-9/_-]*)`)
	invoiceMentionRe = regexp.MustCompile(`(?i)invoice\s+#?([A-Za-z0-9][A-Za-z0-9/_-]*)`)
)

// AppliedCredit is one "Applied ... to invoice #R" clause extracted from a
// description. HasAmount is false when the clause names the invoice without a
// dollar figure, in which case the caller falls back to the full amount of the
// crediting transaction.
type AppliedCredit struct {
	InvoiceRef string
	Amount     decimal.Decimal
	HasAmount  bool
}

// DepositApplications extracts every applied-credit clause from a deposit's
// description. Clauses carrying an explicit amount win over plain mentions of
// the same reference.
func DepositApplications(desc string) []AppliedCredit {
	var out []AppliedCredit

	seen := make(map[string]bool)

	for _, m := range appliedAmountRe.FindAllStringSubmatch(desc, -1) {
		amt, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}

		ref := m[2]
		if seen[strings.ToLower(ref)] {
			continue
		}

		seen[strings.ToLower(ref)] = true

		out = append(out, AppliedCredit{InvoiceRef: ref, Amount: amt, HasAmount: true})
	}

	for _, m := range appliedPlainRe.FindAllStringSubmatch(desc, -1) {
		ref := m[1]
		if seen[strings.ToLower(ref)] {
			continue
		}

		seen[strings.ToLower(ref)] = true

		out = append(out, AppliedCredit{InvoiceRef: ref})
	}

	return out
}

// AppliedDepositRef extracts the deposit reference from an
// "Applied credit from deposit #N" clause.
func AppliedDepositRef(desc string) (string, bool) {
	m := depositCreditRe.FindStringSubmatch(desc)
	if m == nil {
		return "", false
	}

	return m[1], true
}

// InvoiceRefs returns every invoice reference mentioned in the description,
// in order of appearance, without duplicates.
func InvoiceRefs(desc string) []string {
	var refs []string

	seen := make(map[string]bool)

	for _, m := range invoiceMentionRe.FindAllStringSubmatch(desc, -1) {
		key := strings.ToLower(m[1])
		if seen[key] {
			continue
		}

		seen[key] = true

		refs = append(refs, m[1])
	}

	return refs
}

// MentionsReference reports whether the description contains the reference,
// case-insensitively. An empty reference never matches.
func MentionsReference(desc, ref string) bool {
	if ref == "" {
		return false
	}

	return strings.Contains(strings.ToLower(desc), strings.ToLower(ref))
}

// StripAppliedClause removes the applied-credit clause naming the given
// invoice reference from a deposit's description, along with any separator
// that introduced it. Used when a deposit is restored to unapplied state.
func StripAppliedClause(desc, invoiceRef string) string {
	re := regexp.MustCompile(`(?i)(?:\s*[-;,|]\s*|\s+)?applied\s+(?:\$\s*[0-9][0-9,]*(?:\.[0-9]{1,2})?\s+)?(?:credit\s+)?to\s+invoice\s+#?` + regexp.QuoteMeta(invoiceRef) + `\b`)

	out := re.ReplaceAllString(desc, "")
	out = strings.TrimSpace(out)
	out = strings.TrimRight(out, " -;,|")

	return strings.TrimSpace(out)
}
