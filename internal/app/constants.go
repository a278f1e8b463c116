package app

// Player count bounds for a table. Kept centralized so the match handler and
// tests share one rule.
const (
	MinPlayers = 2
	MaxPlayers = 6
)
