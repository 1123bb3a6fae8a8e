package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// IsBalanced reports whether the amounts of an identifier group sum to exactly zero.
// Amounts are added as stored; neither rounding nor a tolerance is applied.
func IsBalanced(group []TransactionLeg) bool {
	sum := decimal.Zero
	for _, leg := range group {
		sum = sum.Add(leg.Amount)
	}
	return sum.IsZero()
}

// GroupByIdentifier splits legs into their identifier groups.
func GroupByIdentifier(legs []TransactionLeg) map[int][]TransactionLeg {
	groups := make(map[int][]TransactionLeg)
	for _, leg := range legs {
		groups[leg.Identifier] = append(groups[leg.Identifier], leg)
	}
	return groups
}

// UnbalancedGroups returns, in ascending order, the identifiers whose group does not sum to zero.
func UnbalancedGroups(legs []TransactionLeg) []int {
	var unbalanced []int
	for identifier, group := range GroupByIdentifier(legs) {
		if !IsBalanced(group) {
			unbalanced = append(unbalanced, identifier)
		}
	}
	sort.Ints(unbalanced)
	return unbalanced
}

// IsUnsplit reports whether the journal has exactly two legs sharing one identifier.
func IsUnsplit(journal Journal) bool {
	return len(journal.Legs) == 2 && journal.Legs[0].Identifier == journal.Legs[1].Identifier
}

// IsSplit reports whether the journal has more than one identifier group.
func IsSplit(journal Journal) bool {
	return len(GroupByIdentifier(journal.Legs)) > 1
}

// SourceLeg returns the outgoing (negative) leg of an unsplit journal.
// Roles are derived from the sign every time they are needed because a journal
// being converted may not match its stored kind yet.
func SourceLeg(legs []TransactionLeg) (TransactionLeg, bool) {
	for _, leg := range legs {
		if leg.IsOutgoing() {
			return leg, true
		}
	}
	return TransactionLeg{}, false
}

// DestinationLeg returns the incoming (positive) leg of an unsplit journal.
func DestinationLeg(legs []TransactionLeg) (TransactionLeg, bool) {
	for _, leg := range legs {
		if leg.IsIncoming() {
			return leg, true
		}
	}
	return TransactionLeg{}, false
}

// SortLegsByID orders legs by id ascending in place.
func SortLegsByID(legs []TransactionLeg) {
	sort.SliceStable(legs, func(i, j int) bool {
		return legs[i].ID < legs[j].ID
	})
}

// OpposingLeg finds the candidate whose amount is the exact negation of leg's amount
// and which shares its identifier. The leg itself never matches. When several
// candidates qualify the lowest id wins; the returned count tells how many qualified.
func OpposingLeg(leg TransactionLeg, candidates []TransactionLeg) (TransactionLeg, int) {
	want := leg.Amount.Neg()

	sorted := make([]TransactionLeg, len(candidates))
	copy(sorted, candidates)
	SortLegsByID(sorted)

	var match TransactionLeg
	matches := 0
	for _, c := range sorted {
		if c.ID == leg.ID || c.Identifier != leg.Identifier {
			continue
		}
		if !c.Amount.Equal(want) {
			continue
		}
		if matches == 0 {
			match = c
		}
		matches++
	}
	return match, matches
}

// JournalTotal returns the sum of the positive legs, the economic value of the journal.
func JournalTotal(legs []TransactionLeg) decimal.Decimal {
	total := decimal.Zero
	for _, leg := range legs {
		if leg.IsIncoming() {
			total = total.Add(leg.Amount)
		}
	}
	return total
}
