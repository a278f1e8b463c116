package domain

import "sort"

// MaxSetSize caps a set at one card per suit.
const MaxSetSize = 4

// MinMeldSize is the minimum card count for any meld on the table.
const MinMeldSize = 3

// IsValidSet reports whether the cards form a legal set: at least three and
// at most four cards, all non-jokers sharing one rank and contributing
// distinct suits. Jokers may only stand in for suits not already present.
func IsValidSet(cards []Card) bool {
	if len(cards) < MinMeldSize || len(cards) > MaxSetSize {
		return false
	}

	baseRank := ""
	suitsUsed := make(map[string]bool, MaxSetSize)
	jokers := 0
	for _, c := range cards {
		if c.IsJoker {
			jokers++
			continue
		}
		if baseRank == "" {
			baseRank = c.Rank
		} else if c.Rank != baseRank {
			return false
		}
		if suitsUsed[c.Suit] {
			return false
		}
		suitsUsed[c.Suit] = true
	}

	return jokers <= MaxSetSize-len(suitsUsed)
}

// IsValidSequence reports whether the cards form a legal sequence: at least
// three cards, all non-jokers in one suit, rank values ace-low with no
// duplicates, and jokers covering every gap between consecutive values.
// A sequence never wraps past the king: Q,K,A is invalid.
func IsValidSequence(cards []Card) bool {
	if len(cards) < MinMeldSize {
		return false
	}

	values := make([]int, 0, len(cards))
	suit := ""
	jokers := 0
	for _, c := range cards {
		if c.IsJoker {
			jokers++
			continue
		}
		if suit == "" {
			suit = c.Suit
		} else if c.Suit != suit {
			return false
		}
		values = append(values, RankValue(c))
	}
	if len(values) == 0 {
		// All jokers never anchor a sequence.
		return false
	}

	sort.Ints(values)
	gaps := 0
	for i := 1; i < len(values); i++ {
		if values[i] == values[i-1] {
			return false
		}
		gaps += values[i] - values[i-1] - 1
	}
	return gaps <= jokers
}

// ValidateNewMeld checks a candidate meld of the given kind.
func ValidateNewMeld(cards []Card, kind MeldKind) bool {
	switch kind {
	case MeldSet:
		return IsValidSet(cards)
	case MeldSequence:
		return IsValidSequence(cards)
	}
	return false
}

// IsPureSequence reports whether the meld is a valid sequence containing no
// jokers.
func IsPureSequence(m Meld) bool {
	if m.Kind != MeldSequence {
		return false
	}
	for _, c := range m.Cards {
		if c.IsJoker {
			return false
		}
	}
	return IsValidSequence(m.Cards)
}

// ValidateExtension checks whether the added cards legally extend a meld
// already on the table. The meld itself is not mutated.
func ValidateExtension(existing Meld, added []Card) bool {
	if len(added) == 0 {
		return false
	}
	switch existing.Kind {
	case MeldSequence:
		return validateSequenceExtension(existing.Cards, added)
	case MeldSet:
		return validateSetExtension(existing.Cards, added)
	}
	return false
}

func validateSequenceExtension(existing, added []Card) bool {
	suit := ""
	for _, c := range existing {
		if !c.IsJoker {
			suit = c.Suit
			break
		}
	}
	if suit == "" {
		return false
	}
	for _, c := range added {
		if !c.IsJoker && c.Suit != suit {
			return false
		}
	}

	// Re-validating the combined list also re-applies the no-wrap rule,
	// so a sequence can never be extended past the king.
	combined := make([]Card, 0, len(existing)+len(added))
	combined = append(combined, existing...)
	combined = append(combined, added...)
	return IsValidSequence(combined)
}

func validateSetExtension(existing, added []Card) bool {
	if len(existing)+len(added) > MaxSetSize {
		return false
	}

	rank := ""
	for _, c := range existing {
		if !c.IsJoker {
			rank = c.Rank
			break
		}
	}
	if rank == "" {
		return false
	}
	for _, c := range added {
		if !c.IsJoker && c.Rank != rank {
			return false
		}
	}

	suitsUsed := make(map[string]bool, MaxSetSize)
	for _, c := range append(append([]Card{}, existing...), added...) {
		if c.IsJoker {
			continue
		}
		if suitsUsed[c.Suit] {
			return false
		}
		suitsUsed[c.Suit] = true
	}
	return true
}
