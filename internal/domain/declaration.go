package domain

// MinDeclarationPoints is the point threshold an initial declaration must
// reach across all of its melds.
const MinDeclarationPoints = 48

// ValidateInitialDeclaration checks a player's first declaration: every meld
// card must be removable from a working copy of the hand, the melds must
// total at least MinDeclarationPoints, at least one meld must be a pure
// sequence, and every meld must be individually valid. The hand is not
// mutated; a failed declaration has no effect anywhere.
func ValidateInitialDeclaration(hand []Card, melds []Meld) bool {
	if len(melds) == 0 {
		return false
	}

	working := append([]Card{}, hand...)
	for _, m := range melds {
		var ok bool
		working, ok = RemoveCards(working, m.Cards)
		if !ok {
			return false
		}
	}

	points := 0
	for _, m := range melds {
		points += MeldPoints(m)
	}
	if points < MinDeclarationPoints {
		return false
	}

	pure := false
	for _, m := range melds {
		if IsPureSequence(m) {
			pure = true
			break
		}
	}
	if !pure {
		return false
	}

	for _, m := range melds {
		if !ValidateNewMeld(m.Cards, m.Kind) {
			return false
		}
	}
	return true
}
