package split

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 0.01
}

func TestShares(t *testing.T) {
	tests := []struct {
		name         string
		total        float64
		participants []string
		spec         *Spec
		want         map[string]float64
	}{
		{
			name:         "nil spec splits equally",
			total:        100,
			participants: []string{"a", "b"},
			want:         map[string]float64{"a": 50, "b": 50},
		},
		{
			name:         "equal split three ways keeps rounded share",
			total:        100,
			participants: []string{"a", "b", "c"},
			spec:         &Spec{Type: TypeEqual},
			want:         map[string]float64{"a": 33.33, "b": 33.33, "c": 33.33},
		},
		{
			name:         "duplicate and empty ids are dropped before dividing",
			total:        90,
			participants: []string{"a", "", "b", "a", "c"},
			want:         map[string]float64{"a": 30, "b": 30, "c": 30},
		},
		{
			name:         "unknown split type falls back to equal",
			total:        80,
			participants: []string{"a", "b"},
			spec:         &Spec{Type: Type("SHARES")},
			want:         map[string]float64{"a": 40, "b": 40},
		},
		{
			name:         "percent allocations summing to 100",
			total:        200,
			participants: []string{"a", "b"},
			spec: &Spec{Type: TypePercent, Allocations: []Allocation{
				{UserID: "a", Value: 70},
				{UserID: "b", Value: 30},
			}},
			want: map[string]float64{"a": 140, "b": 60},
		},
		{
			name:         "percent allocations summing to 150 are normalized",
			total:        100,
			participants: []string{"a", "b"},
			spec: &Spec{Type: TypePercent, Allocations: []Allocation{
				{UserID: "a", Value: 75},
				{UserID: "b", Value: 75},
			}},
			want: map[string]float64{"a": 50, "b": 50},
		},
		{
			name:         "zero percent sum yields all-zero shares not an equal split",
			total:        100,
			participants: []string{"a", "b"},
			spec:         &Spec{Type: TypePercent},
			want:         map[string]float64{"a": 0, "b": 0},
		},
		{
			name:         "percent participant without allocation gets zero",
			total:        100,
			participants: []string{"a", "b", "c"},
			spec: &Spec{Type: TypePercent, Allocations: []Allocation{
				{UserID: "a", Value: 60},
				{UserID: "b", Value: 40},
			}},
			want: map[string]float64{"a": 60, "b": 40, "c": 0},
		},
		{
			name:         "percent allocation for a stranger carries no weight",
			total:        100,
			participants: []string{"a", "b"},
			spec: &Spec{Type: TypePercent, Allocations: []Allocation{
				{UserID: "a", Value: 50},
				{UserID: "b", Value: 50},
				{UserID: "ghost", Value: 900},
			}},
			want: map[string]float64{"a": 50, "b": 50},
		},
		{
			name:         "amount remainder spread over leftover participants",
			total:        100,
			participants: []string{"a", "b", "c"},
			spec: &Spec{Type: TypeAmount, Allocations: []Allocation{
				{UserID: "a", Value: 40},
			}},
			want: map[string]float64{"a": 40, "b": 30, "c": 30},
		},
		{
			name:         "amount allocations covering the total exactly",
			total:        100,
			participants: []string{"a", "b"},
			spec: &Spec{Type: TypeAmount, Allocations: []Allocation{
				{UserID: "a", Value: 60},
				{UserID: "b", Value: 40},
			}},
			want: map[string]float64{"a": 60, "b": 40},
		},
		{
			name:         "amount allocations rescaled when nobody can absorb the gap",
			total:        100,
			participants: []string{"a", "b"},
			spec: &Spec{Type: TypeAmount, Allocations: []Allocation{
				{UserID: "a", Value: 30},
				{UserID: "b", Value: 10},
			}},
			want: map[string]float64{"a": 75, "b": 25},
		},
		{
			name:         "amount negative values clamped before balancing",
			total:        100,
			participants: []string{"a", "b"},
			spec: &Spec{Type: TypeAmount, Allocations: []Allocation{
				{UserID: "a", Value: -20},
				{UserID: "b", Value: 100},
			}},
			want: map[string]float64{"a": 0, "b": 100},
		},
		{
			name:         "amount zero sum with no leftovers yields zero shares",
			total:        100,
			participants: []string{"a", "b"},
			spec: &Spec{Type: TypeAmount, Allocations: []Allocation{
				{UserID: "a", Value: 0},
				{UserID: "b", Value: 0},
			}},
			want: map[string]float64{"a": 0, "b": 0},
		},
		{
			name:         "negative total coerced to zero",
			total:        -50,
			participants: []string{"a", "b"},
			want:         map[string]float64{"a": 0, "b": 0},
		},
		{
			name:         "NaN total coerced to zero",
			total:        math.NaN(),
			participants: []string{"a"},
			want:         map[string]float64{"a": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Shares(tt.total, tt.participants, tt.spec)
			if len(got) != len(tt.want) {
				t.Fatalf("Shares returned %d entries, want %d (%v)", len(got), len(tt.want), got)
			}
			for id, want := range tt.want {
				if !almostEqual(got[id], want) {
					t.Errorf("share[%s] = %v, want %v", id, got[id], want)
				}
			}
		})
	}
}

func TestSharesEmptyParticipants(t *testing.T) {
	got := Shares(100, nil, &Spec{Type: TypeEqual})
	if len(got) != 0 {
		t.Fatalf("expected empty mapping, got %v", got)
	}

	got = Shares(100, []string{"", ""}, nil)
	if len(got) != 0 {
		t.Fatalf("expected empty mapping for blank ids, got %v", got)
	}
}

// Shares must be pure: identical inputs always produce identical output.
func TestSharesIdempotent(t *testing.T) {
	spec := &Spec{Type: TypePercent, Allocations: []Allocation{
		{UserID: "a", Value: 33.3},
		{UserID: "b", Value: 66.7},
	}}
	first := Shares(99.99, []string{"a", "b"}, spec)
	second := Shares(99.99, []string{"a", "b"}, spec)

	for id, v := range first {
		if second[id] != v {
			t.Errorf("share[%s] differs between calls: %v vs %v", id, v, second[id])
		}
	}
}

// For amount splits that cover all participants, shares must sum back to the
// rounded total.
func TestSharesAmountSumsToTotal(t *testing.T) {
	totals := []float64{100, 99.99, 0.01, 123.45}
	for _, total := range totals {
		spec := &Spec{Type: TypeAmount, Allocations: []Allocation{
			{UserID: "a", Value: total / 2},
		}}
		shares := Shares(total, []string{"a", "b", "c"}, spec)

		var sum float64
		for _, v := range shares {
			sum += v
		}
		if !almostEqual(sum, round2(total)) {
			t.Errorf("total %v: shares sum to %v", total, sum)
		}
	}
}

// Equal splits accept rounding drift of at most one cent per participant.
func TestSharesEqualDriftBound(t *testing.T) {
	total := 100.0
	ids := []string{"a", "b", "c"}
	shares := Shares(total, ids, nil)

	var sum float64
	for _, v := range shares {
		sum += v
	}
	if math.Abs(sum-total) > 0.01*float64(len(ids)) {
		t.Errorf("equal split drift too large: sum=%v total=%v", sum, total)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		spec *Spec
		ok   bool
	}{
		{name: "nil spec is always valid", spec: nil, ok: true},
		{name: "equal is always valid", spec: &Spec{Type: TypeEqual}, ok: true},
		{name: "unknown type is permissively valid", spec: &Spec{Type: Type("WEIGHTS")}, ok: true},
		{
			name: "percent with positive sum",
			spec: &Spec{Type: TypePercent, Allocations: []Allocation{{UserID: "a", Value: 100}}},
			ok:   true,
		},
		{
			name: "percent with no allocations is invalid",
			spec: &Spec{Type: TypePercent},
			ok:   false,
		},
		{
			name: "percent summing to zero is invalid",
			spec: &Spec{Type: TypePercent, Allocations: []Allocation{
				{UserID: "a", Value: 50},
				{UserID: "b", Value: -50},
			}},
			ok: false,
		},
		{
			name: "amount with negative entries still validates after clamping",
			spec: &Spec{Type: TypeAmount, Allocations: []Allocation{{UserID: "a", Value: -10}}},
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(100, []string{"a", "b"}, tt.spec)
			if got.OK != tt.ok {
				t.Errorf("Validate = %+v, want ok=%v", got, tt.ok)
			}
			if !got.OK && got.Message == "" {
				t.Error("invalid result must carry a message")
			}
		})
	}
}
