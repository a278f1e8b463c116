package nakama

import "rummy/internal/domain"

// Wire representations of cards and melds. The client protocol is JSON with
// integer op codes; these shapes match the snapshot format's card and meld
// objects so clients parse one card shape everywhere.
type wireCard struct {
	Suit    string `json:"suit"`
	Rank    string `json:"rank"`
	IsJoker bool   `json:"is_joker"`
}

type wireMeld struct {
	Type  string     `json:"type"`
	Cards []wireCard `json:"cards"`
}

func cardsToWire(cards []domain.Card) []wireCard {
	out := make([]wireCard, len(cards))
	for i, c := range cards {
		out[i] = wireCard{Suit: c.Suit, Rank: c.Rank, IsJoker: c.IsJoker}
	}
	return out
}

func cardsFromWire(cards []wireCard) []domain.Card {
	out := make([]domain.Card, len(cards))
	for i, c := range cards {
		out[i] = domain.Card{Suit: c.Suit, Rank: c.Rank, IsJoker: c.IsJoker}
	}
	return out
}

func meldsToWire(melds []domain.Meld) []wireMeld {
	out := make([]wireMeld, len(melds))
	for i, m := range melds {
		out[i] = wireMeld{Type: m.Kind.String(), Cards: cardsToWire(m.Cards)}
	}
	return out
}

func meldsFromWire(melds []wireMeld) ([]domain.Meld, error) {
	out := make([]domain.Meld, len(melds))
	for i, m := range melds {
		kind, err := domain.ParseMeldKind(m.Type)
		if err != nil {
			return nil, err
		}
		out[i] = domain.Meld{Kind: kind, Cards: cardsFromWire(m.Cards)}
	}
	return out, nil
}
