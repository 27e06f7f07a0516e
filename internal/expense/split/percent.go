package split

// =============================================================================
// PERCENT SPLIT STRATEGY
// Divides the expense total by per-participant percentage points
// =============================================================================

// PercentStrategy implements the Strategy interface for percentage splits
type PercentStrategy struct{}

// Type returns the split type identifier
func (s *PercentStrategy) Type() Type {
	return TypePercent
}

// Shares normalizes the raw percentages so they behave as if they summed to
// 100: each participant's effective percent is raw * (100 / percentSum).
// Percentages are not clamped to 0-100, so a configuration summing to 150
// still distributes the whole total. A zero percent sum yields all-zero
// shares, not an equal split.
func (s *PercentStrategy) Shares(total float64, participantIDs []string, spec *Spec) map[string]float64 {
	known := idSet(participantIDs)

	raw := make(map[string]float64, len(participantIDs))
	var percentSum float64
	if spec != nil {
		for _, a := range spec.Allocations {
			if !known[a.UserID] {
				continue
			}
			v := sanitizeValue(a.Value)
			raw[a.UserID] = v
			percentSum += v
		}
	}

	var factor float64
	if percentSum != 0 {
		factor = 100 / percentSum
	}

	shares := make(map[string]float64, len(participantIDs))
	for _, id := range participantIDs {
		// Participants with no allocation entry keep a raw percent of 0
		shares[id] = round2(raw[id] * factor / 100 * total)
	}
	return shares
}

// Validate rejects configurations whose percentages sum to zero or less
func (s *PercentStrategy) Validate(_ float64, spec *Spec) Validation {
	var sum float64
	if spec != nil {
		for _, a := range spec.Allocations {
			sum += sanitizeValue(a.Value)
		}
	}
	if sum <= 0 {
		return Validation{Message: "percentages must sum to a positive value"}
	}
	return Validation{OK: true}
}
