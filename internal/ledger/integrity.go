package ledger

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarningKind classifies an integrity clamp.
type WarningKind string

const (
	// WarnOverApplied means the evidence claimed more was applied to a
	// receivable/payable than its original amount; the total was capped.
	WarnOverApplied WarningKind = "over_applied"

	// WarnNegativeBalance means a computed outstanding balance would have
	// gone negative and was floored at zero.
	WarnNegativeBalance WarningKind = "negative_balance"
)

// Warning is a structured record of an integrity clamp. Clamps are deliberate
// leniency toward inconsistent upstream data: the ledger is corrected and the
// violation is recorded here instead of failing the operation.
type Warning struct {
	Kind          WarningKind
	TransactionID uuid.UUID
	Reference     string
	Observed      decimal.Decimal
	Cap           decimal.Decimal
	Detail        string
}

// WarningSink receives integrity warnings. Production wiring logs them; tests
// use a recording sink to assert that no clamps occurred.
type WarningSink interface {
	Record(w Warning)
}

// LogSink records warnings to a slog logger.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Record(w Warning) {
	s.log.Warn("ledger integrity clamp",
		"kind", string(w.Kind),
		"transaction_id", w.TransactionID,
		"reference", w.Reference,
		"observed", w.Observed.StringFixed(2),
		"cap", w.Cap.StringFixed(2),
		"detail", w.Detail,
	)
}
