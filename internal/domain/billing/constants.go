package billing

// Matching and payment tolerances. Invoices and send records share no
// foreign key; linkage is inferred, and these are the documented knobs the
// inference runs on. Tests assert against them directly.
const (
	// AmountTolerance is the absolute tolerance on the amount comparison,
	// the primary match key.
	AmountTolerance = 0.01
	// SecondaryTolerance applies to the weight/protector cross-checks, which
	// report but never reject.
	SecondaryTolerance = 1.0
	// MatchWindowDays bounds the send-date window around an invoice's
	// creation date for amount matching.
	MatchWindowDays = 30
	// FallbackWindowDays bounds the date-only fallback used to still surface
	// a best-effort sent date when amount correlation fails.
	FallbackWindowDays = 7
	// PaidTolerance is the absolute tolerance used for PAID/PENDING
	// decisions; repeated float aggregation drifts by epsilons.
	PaidTolerance = 0.01
)

const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
)
