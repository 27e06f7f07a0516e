package split

import "math"

// =============================================================================
// AMOUNT SPLIT STRATEGY
// Each participant owes a fixed currency amount; the unallocated remainder is
// absorbed by participants without an allocation entry
// =============================================================================

// AmountStrategy implements the Strategy interface for fixed-amount splits
type AmountStrategy struct{}

// Type returns the split type identifier
func (s *AmountStrategy) Type() Type {
	return TypeAmount
}

// Shares records each allocation as that participant's fixed amount (negative
// values clamped to 0) and then balances the books:
//
//   - when the allocated sum misses the total and at least one participant has
//     no allocation, the remainder is spread evenly across those leftover
//     participants;
//   - when it misses the total and nobody is left to absorb it, every amount
//     is rescaled by total/sum so the shares sum to the total exactly.
//
// Differences at or below the tolerance never trigger rebalancing.
func (s *AmountStrategy) Shares(total float64, participantIDs []string, spec *Spec) map[string]float64 {
	known := idSet(participantIDs)

	fixed := make(map[string]float64, len(participantIDs))
	var sum float64
	if spec != nil {
		for _, a := range spec.Allocations {
			if !known[a.UserID] {
				continue
			}
			v := sanitizeValue(a.Value)
			if v < 0 {
				v = 0
			}
			fixed[a.UserID] = v
			sum += v
		}
	}

	var leftovers []string
	for _, id := range participantIDs {
		if _, ok := fixed[id]; !ok {
			leftovers = append(leftovers, id)
		}
	}

	remainder := total - sum
	if math.Abs(remainder) > tolerance && len(leftovers) > 0 {
		per := remainder / float64(len(leftovers))
		for _, id := range leftovers {
			fixed[id] = per
		}
	} else if math.Abs(remainder) > tolerance {
		var factor float64
		if sum != 0 {
			factor = total / sum
		}
		for id, v := range fixed {
			fixed[id] = v * factor
		}
	}

	shares := make(map[string]float64, len(participantIDs))
	for _, id := range participantIDs {
		shares[id] = round2(fixed[id])
	}
	return shares
}

// Validate rejects configurations whose amounts sum negative.
// The clamp in Shares makes this unreachable in practice, but it is part of
// the contract: fixed amounts must not sum below zero.
func (s *AmountStrategy) Validate(_ float64, spec *Spec) Validation {
	var sum float64
	if spec != nil {
		for _, a := range spec.Allocations {
			v := sanitizeValue(a.Value)
			if v < 0 {
				v = 0
			}
			sum += v
		}
	}
	if sum < 0 {
		return Validation{Message: "amounts must not sum to a negative value"}
	}
	return Validation{OK: true}
}
