package split

// =============================================================================
// EQUAL SPLIT STRATEGY
// Divides the expense total uniformly among all participants
// =============================================================================

// EqualStrategy implements the Strategy interface for equal splits
type EqualStrategy struct{}

// Type returns the split type identifier
func (s *EqualStrategy) Type() Type {
	return TypeEqual
}

// Shares gives every participant round2(total/n).
// No remainder redistribution is performed: cent-level rounding drift across
// participants is accepted as-is for equal splits.
func (s *EqualStrategy) Shares(total float64, participantIDs []string, _ *Spec) map[string]float64 {
	n := float64(len(participantIDs))
	if n == 0 {
		n = 1
	}
	per := round2(total / n)

	shares := make(map[string]float64, len(participantIDs))
	for _, id := range participantIDs {
		shares[id] = per
	}
	return shares
}

// Validate always passes: an equal split has no configuration to get wrong
func (s *EqualStrategy) Validate(_ float64, _ *Spec) Validation {
	return Validation{OK: true}
}
