package domain

import (
	"errors"
	"testing"
)

func gameWithPlayers(names ...string) *GameState {
	g := NewGameState()
	for _, name := range names {
		g.AddPlayer(&Player{Name: name})
	}
	return g
}

func TestNextTurnWrapsAndIncrementsRound(t *testing.T) {
	for _, n := range []int{1, 2, 4, 6} {
		names := make([]string, n)
		for i := range names {
			names[i] = string(rune('A' + i))
		}
		g := gameWithPlayers(names...)
		g.CurrentPlayerIndex = n - 1

		startIndex := g.CurrentPlayerIndex
		startRound := g.CurrentRound
		for i := 0; i < n; i++ {
			g.NextTurn()
		}

		if g.CurrentPlayerIndex != startIndex {
			t.Errorf("n=%d: index = %d, want %d", n, g.CurrentPlayerIndex, startIndex)
		}
		if g.CurrentRound != startRound+1 {
			t.Errorf("n=%d: round = %d, want %d", n, g.CurrentRound, startRound+1)
		}
	}
}

func TestNextTurnNoPlayers(t *testing.T) {
	g := NewGameState()
	g.NextTurn()
	if g.CurrentRound != 1 || g.CurrentPlayerIndex != 0 {
		t.Fatalf("next turn with no players mutated state: round=%d index=%d", g.CurrentRound, g.CurrentPlayerIndex)
	}
	if g.CurrentPlayer() != nil {
		t.Fatal("current player should be nil with no players")
	}
}

func TestRemovePlayerRenormalizesIndex(t *testing.T) {
	tests := []struct {
		name       string
		remove     string
		startIndex int
		wantIndex  int
	}{
		{name: "before current decrements", remove: "A", startIndex: 2, wantIndex: 1},
		{name: "after current unchanged", remove: "C", startIndex: 0, wantIndex: 0},
		{name: "out of range clamps to zero", remove: "C", startIndex: 2, wantIndex: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gameWithPlayers("A", "B", "C")
			g.CurrentPlayerIndex = tt.startIndex
			if err := g.RemovePlayer(tt.remove); err != nil {
				t.Fatalf("remove error: %v", err)
			}
			if g.CurrentPlayerIndex != tt.wantIndex {
				t.Errorf("index = %d, want %d", g.CurrentPlayerIndex, tt.wantIndex)
			}
		})
	}
}

func TestRemovePlayerNotFound(t *testing.T) {
	g := gameWithPlayers("A")
	if err := g.RemovePlayer("Z"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("err = %v, want ErrPlayerNotFound", err)
	}
}

func TestPlayerRemoveCard(t *testing.T) {
	p := &Player{Name: "A", Hand: []Card{c("7", SuitHearts), c("7", SuitHearts)}}
	if err := p.RemoveCard(c("7", SuitHearts)); err != nil {
		t.Fatalf("remove error: %v", err)
	}
	if p.HandSize() != 1 {
		t.Fatalf("hand size = %d, want 1", p.HandSize())
	}
	if err := p.RemoveCard(c("8", SuitHearts)); !errors.Is(err, ErrCardNotInHand) {
		t.Fatalf("err = %v, want ErrCardNotInHand", err)
	}
}

func TestValidateAndProcessDeclaration(t *testing.T) {
	run := Meld{Kind: MeldSequence, Cards: []Card{c("J", SuitHearts), c("Q", SuitHearts), c("K", SuitHearts)}}
	set := Meld{Kind: MeldSet, Cards: []Card{c("10", SuitSpades), c("10", SuitClubs), c("10", SuitDiamonds)}}

	g := gameWithPlayers("A", "B")
	player, _ := g.FindPlayer("A")
	player.Hand = append(handOf(run, set), c("3", SuitClubs))

	ok, err := g.ValidateAndProcessDeclaration("A", []Meld{run, set})
	if err != nil || !ok {
		t.Fatalf("declaration = (%v, %v), want accepted", ok, err)
	}
	if !player.HasDeclared {
		t.Error("player should be marked declared")
	}
	if player.HandSize() != 1 {
		t.Errorf("hand size = %d, want 1", player.HandSize())
	}
	if len(g.Table) != 2 {
		t.Errorf("table melds = %d, want 2", len(g.Table))
	}

	// Second declaration by the same player is a plain rejection.
	ok, err = g.ValidateAndProcessDeclaration("A", []Meld{run})
	if err != nil || ok {
		t.Fatalf("redeclaration = (%v, %v), want rejected without error", ok, err)
	}
}

func TestDeclarationRejectionLeavesStateUntouched(t *testing.T) {
	lowRun := Meld{Kind: MeldSequence, Cards: []Card{c("2", SuitHearts), c("3", SuitHearts), c("4", SuitHearts)}}

	g := gameWithPlayers("A")
	player, _ := g.FindPlayer("A")
	player.Hand = handOf(lowRun)
	before := player.HandSize()

	ok, err := g.ValidateAndProcessDeclaration("A", []Meld{lowRun})
	if err != nil || ok {
		t.Fatalf("declaration = (%v, %v), want rejected", ok, err)
	}
	if player.HasDeclared {
		t.Error("rejected declaration must not mark the player")
	}
	if player.HandSize() != before || len(g.Table) != 0 {
		t.Error("rejected declaration must not touch hand or table")
	}
}

func TestDeclarationUnknownPlayer(t *testing.T) {
	g := gameWithPlayers("A")
	if _, err := g.ValidateAndProcessDeclaration("Z", nil); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("err = %v, want ErrPlayerNotFound", err)
	}
}

func TestExtendMeld(t *testing.T) {
	g := gameWithPlayers("A")
	player, _ := g.FindPlayer("A")
	player.Hand = []Card{c("8", SuitHearts), c("2", SuitClubs)}
	g.AddMeldToTable(Meld{Kind: MeldSequence, Cards: []Card{c("5", SuitHearts), c("6", SuitHearts), c("7", SuitHearts)}})

	ok, err := g.ExtendMeld("A", 0, []Card{c("8", SuitHearts)})
	if err != nil || !ok {
		t.Fatalf("extension = (%v, %v), want accepted", ok, err)
	}
	if len(g.Table[0].Cards) != 4 {
		t.Errorf("meld size = %d, want 4", len(g.Table[0].Cards))
	}
	if player.HandSize() != 1 {
		t.Errorf("hand size = %d, want 1", player.HandSize())
	}

	// Invalid extension and missing card both reject without effect.
	if ok, _ := g.ExtendMeld("A", 0, []Card{c("2", SuitClubs)}); ok {
		t.Error("wrong-suit extension should be rejected")
	}
	if ok, _ := g.ExtendMeld("A", 0, []Card{c("9", SuitHearts)}); ok {
		t.Error("extension with a card not in hand should be rejected")
	}
	if ok, _ := g.ExtendMeld("A", 5, []Card{c("2", SuitClubs)}); ok {
		t.Error("out-of-range meld index should be rejected")
	}
	if len(g.Table[0].Cards) != 4 || player.HandSize() != 1 {
		t.Error("rejected extensions must not touch state")
	}
}

func TestCanPlayerClose(t *testing.T) {
	tests := []struct {
		name   string
		player Player
		want   bool
	}{
		{name: "declared empty hand", player: Player{HasDeclared: true}, want: true},
		{name: "declared one card", player: Player{HasDeclared: true, Hand: []Card{c("2", SuitClubs)}}, want: true},
		{name: "declared two cards", player: Player{HasDeclared: true, Hand: []Card{c("2", SuitClubs), c("3", SuitClubs)}}, want: false},
		{name: "undeclared empty hand", player: Player{}, want: false},
	}

	g := NewGameState()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.CanPlayerClose(&tt.player); got != tt.want {
				t.Errorf("CanPlayerClose() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCloseGame(t *testing.T) {
	g := gameWithPlayers("P1", "P2", "P3")
	p1, _ := g.FindPlayer("P1")
	p1.HasDeclared = true
	p2, _ := g.FindPlayer("P2")
	p2.Hand = []Card{Joker()}
	p3, _ := g.FindPlayer("P3")
	p3.HasDeclared = true
	p3.Hand = []Card{c("Q", SuitDiamonds), c("J", SuitDiamonds)}

	ok, err := g.CloseGame("P1")
	if err != nil || !ok {
		t.Fatalf("close = (%v, %v), want accepted", ok, err)
	}
	if !g.IsClosed || g.CloserName != "P1" {
		t.Fatalf("closure not recorded: closed=%v closer=%q", g.IsClosed, g.CloserName)
	}

	want := map[string]int{"P1": 0, "P2": 150, "P3": 20}
	for name, points := range want {
		if g.Scores[name] != points {
			t.Errorf("scores[%s] = %d, want %d", name, g.Scores[name], points)
		}
		p, _ := g.FindPlayer(name)
		if p.Score != points {
			t.Errorf("player %s accumulated score = %d, want %d", name, p.Score, points)
		}
	}
}

func TestCloseGameRejections(t *testing.T) {
	g := gameWithPlayers("A", "B")
	a, _ := g.FindPlayer("A")
	a.Hand = []Card{c("2", SuitClubs)}

	if ok, err := g.CloseGame("A"); err != nil || ok {
		t.Fatalf("close with cards = (%v, %v), want plain rejection", ok, err)
	}
	if _, err := g.CloseGame("Z"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("err = %v, want ErrPlayerNotFound", err)
	}
}

func TestClosedGameIsTerminal(t *testing.T) {
	g := gameWithPlayers("A", "B")
	if ok, err := g.CloseGame("A"); err != nil || !ok {
		t.Fatalf("close failed: (%v, %v)", ok, err)
	}

	if err := g.AddPlayer(&Player{Name: "C"}); !errors.Is(err, ErrGameClosed) {
		t.Errorf("AddPlayer after close: err = %v, want ErrGameClosed", err)
	}
	if err := g.RemovePlayer("B"); !errors.Is(err, ErrGameClosed) {
		t.Errorf("RemovePlayer after close: err = %v, want ErrGameClosed", err)
	}
	if _, err := g.CloseGame("B"); !errors.Is(err, ErrGameClosed) {
		t.Errorf("second close: err = %v, want ErrGameClosed", err)
	}

	round := g.CurrentRound
	g.NextTurn()
	if g.CurrentRound != round {
		t.Error("NextTurn after close must be a no-op")
	}
}
