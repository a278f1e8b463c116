package domain

// Closure penalties. A player who never declared pays a flat penalty plus a
// surcharge per joker held; their other cards are not counted.
const (
	UndeclaredPenalty      = 100
	UndeclaredJokerPenalty = 50
)

// CalculateScores computes each player's penalty at game closure. The closer
// scores zero. Undeclared players score the flat penalty plus the joker
// surcharge. Declared players score the point total of their remaining hand,
// with jokers at the flat JokerHandPoints value.
func CalculateScores(players []*Player, closerName string) map[string]int {
	scores := make(map[string]int, len(players))
	scores[closerName] = 0

	for _, p := range players {
		if p.Name == closerName {
			continue
		}
		if !p.HasDeclared {
			jokers := 0
			for _, c := range p.Hand {
				if c.IsJoker {
					jokers++
				}
			}
			scores[p.Name] = UndeclaredPenalty + UndeclaredJokerPenalty*jokers
			continue
		}
		scores[p.Name] = handPoints(p.Hand)
	}
	return scores
}

func handPoints(cards []Card) int {
	points := 0
	for _, c := range cards {
		if c.IsJoker {
			points += JokerHandPoints
			continue
		}
		points += CardPoints(c)
	}
	return points
}
