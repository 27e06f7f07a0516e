package split

import "math"

// Type identifies how an expense total is divided among participants
type Type string

const (
	TypeEqual   Type = "EQUAL"
	TypePercent Type = "PERCENT"
	TypeAmount  Type = "AMOUNT"
)

// Allocation assigns a raw value to one participant.
// For PERCENT the value is a percentage point; for AMOUNT it is a currency amount.
// EQUAL splits carry no allocations.
type Allocation struct {
	UserID string  `json:"user_id"`
	Value  float64 `json:"value"`
}

// Spec describes how an expense total divides among participants.
// A nil Spec means an equal split.
type Spec struct {
	Type        Type         `json:"type"`
	Allocations []Allocation `json:"allocations,omitempty"`
}

// Validation is the advisory result of checking a spec before it is persisted.
// It never prevents Shares from producing a best-effort result.
type Validation struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Strategy computes shares for one split type.
// Implementations never fail: degenerate inputs degrade to a deterministic default.
type Strategy interface {
	// Type returns the split type identifier
	Type() Type

	// Shares computes each participant's share of total.
	// Participant ids are already sanitized (non-empty, deduplicated).
	Shares(total float64, participantIDs []string, spec *Spec) map[string]float64

	// Validate checks a spec before persistence
	Validate(total float64, spec *Spec) Validation
}

// Factory creates split strategies based on the requested type
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy for t.
// Unknown types fall back to the equal strategy (permissive default, not an error).
func (f *Factory) Create(t Type) Strategy {
	switch t {
	case TypePercent:
		return &PercentStrategy{}
	case TypeAmount:
		return &AmountStrategy{}
	default:
		return &EqualStrategy{}
	}
}

var defaultFactory = NewFactory()

// Shares computes every requested participant's share of total, keyed by
// participant id. It is a pure function and never fails: a negative or
// non-finite total is coerced to 0, empty participant ids are dropped, and an
// empty participant set yields an empty mapping instead of dividing by zero.
func Shares(total float64, participantIDs []string, spec *Spec) map[string]float64 {
	ids := sanitizeIDs(participantIDs)
	if len(ids) == 0 {
		return map[string]float64{}
	}

	t := TypeEqual
	if spec != nil {
		t = spec.Type
	}

	return defaultFactory.Create(t).Shares(sanitizeAmount(total), ids, spec)
}

// Validate reports whether a spec is fit to persist. Callers are expected to
// check it before saving a new split; Shares does not.
func Validate(total float64, participantIDs []string, spec *Spec) Validation {
	t := TypeEqual
	if spec != nil {
		t = spec.Type
	}

	return defaultFactory.Create(t).Validate(sanitizeAmount(total), spec)
}

// tolerance absorbs floating-point noise when comparing allocated sums against
// the expense total; differences at or below it never trigger rebalancing.
const tolerance = 0.009

// round2 rounds to 2 decimal places, half away from zero
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// sanitizeAmount coerces negative and non-finite totals to 0 so they never
// propagate into shares
func sanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// sanitizeValue treats non-finite allocation values as 0
func sanitizeValue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// sanitizeIDs drops empty ids and deduplicates, preserving order
func sanitizeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// idSet builds a membership set for recognizing allocation entries
func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
