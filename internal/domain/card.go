package domain

// Suit identifiers for the four suits. Jokers carry an empty suit and rank.
const (
	SuitHearts   = "H"
	SuitDiamonds = "D"
	SuitClubs    = "C"
	SuitSpades   = "S"
)

// Suits lists the four suits in deck-build order.
var Suits = []string{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Ranks lists the thirteen ranks in ascending order, ace low.
var Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Card is a single playing card. Two physical decks are in play, so cards
// compare by value: structurally identical cards are interchangeable and no
// card carries a unique identity.
type Card struct {
	Suit    string
	Rank    string
	IsJoker bool
}

// Joker returns a printed joker card.
func Joker() Card {
	return Card{IsJoker: true}
}

func (c Card) String() string {
	if c.IsJoker {
		return "Joker"
	}
	return c.Rank + c.Suit
}

// rankValues maps ranks to sequence positions, ace low. A sequence never
// wraps past the king.
var rankValues = map[string]int{
	"A": 1, "2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7,
	"8": 8, "9": 9, "10": 10, "J": 11, "Q": 12, "K": 13,
}

// cardPoints is the single authoritative point table shared by the
// declaration threshold and closure scoring.
var cardPoints = map[string]int{
	"A": 10, "2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7,
	"8": 8, "9": 9, "10": 10, "J": 10, "Q": 10, "K": 10,
}

const (
	// JokerMeldPoints is the value of a joker inside a declared meld.
	JokerMeldPoints = 20
	// JokerHandPoints is the flat value of a joker left in a declared
	// player's hand at closure.
	JokerHandPoints = 10
)

// RankValue returns the sequence value of a rank (A=1 .. K=13). Jokers and
// unknown ranks return 0.
func RankValue(c Card) int {
	if c.IsJoker {
		return 0
	}
	return rankValues[c.Rank]
}

// CardPoints returns the declaration point value of a card.
func CardPoints(c Card) int {
	if c.IsJoker {
		return JokerMeldPoints
	}
	return cardPoints[c.Rank]
}

// RemoveCards removes the given cards from a hand by value, one occurrence
// per requested card. The second result is false when the hand does not hold
// enough copies; the returned slice is only meaningful on success.
func RemoveCards(hand []Card, toRemove []Card) ([]Card, bool) {
	removeCounts := make(map[Card]int, len(toRemove))
	for _, card := range toRemove {
		removeCounts[card]++
	}

	updated := make([]Card, 0, len(hand))
	removed := 0
	for _, card := range hand {
		if count, ok := removeCounts[card]; ok && count > 0 {
			removeCounts[card] = count - 1
			removed++
			continue
		}
		updated = append(updated, card)
	}

	return updated, removed == len(toRemove)
}
