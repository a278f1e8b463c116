package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"rummy/internal/app"
	"rummy/internal/config"
	"rummy/internal/domain"
	"rummy/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	MatchLabelKey_OpenSeats = "open" // Key for the open seats in the match label
)

// matchLabel is the queryable JSON label kept current on the dispatcher.
type matchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats           [app.MaxPlayers]string      `json:"seats"`             // Array of user IDs, empty string means seat is empty
	OwnerSeat       int                         `json:"owner_seat"`        // Seat index of the match owner
	Tick            int64                       `json:"tick"`              // Current tick of the match
	TurnIndex       int                         `json:"turn_index"`        // Player index the turn timer is armed for
	TurnExpiresTick int64                       `json:"turn_expires_tick"` // Tick at which the current turn times out
	Presences       map[string]runtime.Presence `json:"-"`                 // Map UserId -> Presence for targeted messaging
	App             *app.Service                `json:"-"`                 // Rummy app service with game logic
	Game            *domain.GameState           `json:"-"`                 // Current active game state (nil if in lobby)
	Store           ports.SnapshotStore         `json:"-"`                 // Interface to Nakama storage for saved games
	Resume          *app.ResumeService          `json:"-"`                 // Resume token issuer (nil when unconfigured)
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

// seatOf returns the seat index occupied by the user or -1.
func (ms *MatchState) seatOf(userID string) int {
	for i, seat := range ms.Seats {
		if seat == userID {
			return i
		}
	}
	return -1
}

// seatedUserIDs returns occupied seats in seat order. Domain player order
// follows this ordering, so seat order is turn order.
func (ms *MatchState) seatedUserIDs() []string {
	out := make([]string, 0, len(ms.Seats))
	for _, seat := range ms.Seats {
		if seat != "" {
			out = append(out, seat)
		}
	}
	return out
}

// findFirstOccupiedSeat returns the first occupied seat index or -1 if the table is empty.
func findFirstOccupiedSeat(seats []string) int {
	for i, userID := range seats {
		if userID != "" {
			return i
		}
	}
	return -1
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// Client request payloads.
type discardRequest struct {
	Card wireCard `json:"card"`
}

type declareRequest struct {
	Melds []wireMeld `json:"melds"`
}

type extendRequest struct {
	MeldIndex int        `json:"meld_index"`
	Cards     []wireCard `json:"cards"`
}

// Server event payloads.
type playerJoinedEvent struct {
	Seats     []string     `json:"seats"`
	OwnerSeat int          `json:"owner_seat"`
	Players   []wirePlayer `json:"players"`
}

type wirePlayer struct {
	UserID         string `json:"user_id"`
	Seat           int    `json:"seat"`
	IsOwner        bool   `json:"is_owner"`
	CardsRemaining int    `json:"cards_remaining"`
	HasDeclared    bool   `json:"has_declared"`
	DisplayName    string `json:"display_name"`
}

type gameStartedEvent struct {
	Players    []string `json:"players"`
	StartIndex int      `json:"start_index"`
	TopDiscard wireCard `json:"top_discard"`
}

type handDealtEvent struct {
	Hand []wireCard `json:"hand"`
}

type cardDrawnEvent struct {
	Card          wireCard `json:"card"`
	PileRemaining int      `json:"pile_remaining"`
}

type discardTakenEvent struct {
	Player string   `json:"player"`
	Card   wireCard `json:"card"`
}

type cardDiscardedEvent struct {
	Player    string   `json:"player"`
	Card      wireCard `json:"card"`
	NextIndex int      `json:"next_index"`
	NewRound  bool     `json:"new_round"`
}

type meldDeclaredEvent struct {
	Player string     `json:"player"`
	Melds  []wireMeld `json:"melds"`
}

type meldExtendedEvent struct {
	Player    string     `json:"player"`
	MeldIndex int        `json:"meld_index"`
	Cards     []wireCard `json:"cards"`
}

type gameClosedEvent struct {
	Closer string         `json:"closer"`
	Scores map[string]int `json:"scores"`
}

type gameSavedEvent struct {
	SaveKey string `json:"save_key"`
	Token   string `json:"token"`
}

type gameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	state := &MatchState{
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(nil),
		OwnerSeat: -1,
		Store:     NewNakamaSnapshotStore(nk),
	}

	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if secret := env["rummy_resume_secret"]; secret != "" {
			state.Resume = app.NewResumeService(secret, MatchNameRummy, 0)
		}
	}
	if state.Resume == nil {
		logger.Warn("MatchInit: rummy_resume_secret not set, saved games disabled.")
	}

	// A resume RPC passes the saved snapshot through match params.
	if raw, ok := params["snapshot"].(string); ok && raw != "" {
		snap, err := domain.UnmarshalSnapshot([]byte(raw))
		if err != nil {
			logger.Error("MatchInit: Invalid snapshot param: %v", err)
		} else if game, err := domain.RestoreGame(snap); err != nil {
			logger.Error("MatchInit: Could not restore game: %v", err)
		} else {
			state.Game = game
			// Re-seat the saved players in their turn order. They hold
			// their seats whether or not they have reconnected yet.
			for i, p := range game.Players {
				if i < len(state.Seats) {
					state.Seats[i] = p.Name
				}
			}
			logger.Info("MatchInit: Restored saved game with %d players.", len(game.Players))
		}
	}

	labelBytes, err := json.Marshal(mh.currentLabel(state))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// A running game only admits its own players back.
	if matchState.Game != nil {
		if _, err := matchState.Game.FindPlayer(presence.GetUserId()); err != nil {
			return state, false, "game in progress"
		}
		return state, true, ""
	}

	if matchState.GetOpenSeatsCount() <= 0 {
		return state, false, "match full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		// A returning player keeps the seat assigned at restore time.
		if matchState.seatOf(p.GetUserId()) >= 0 {
			continue
		}

		assigned := false
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}
		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", p.GetUserId())
		}
	}

	if matchState.OwnerSeat < 0 || matchState.Seats[matchState.OwnerSeat] == "" {
		matchState.OwnerSeat = findFirstOccupiedSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match. A leaver
// during a running game is removed from turn order; the table melds they
// contributed stay in play.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		seat := matchState.seatOf(p.GetUserId())
		if seat < 0 {
			continue
		}
		matchState.Seats[seat] = ""
		logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), seat)

		if matchState.Game != nil && !matchState.Game.IsClosed {
			if err := matchState.Game.RemovePlayer(p.GetUserId()); err != nil {
				logger.Warn("MatchLeave: Could not remove %s from game: %v", p.GetUserId(), err)
			}
		}
	}

	if matchState.OwnerSeat < 0 || matchState.Seats[matchState.OwnerSeat] == "" {
		matchState.OwnerSeat = findFirstOccupiedSeat(matchState.Seats[:])
	}

	if matchState.GetOccupiedSeatCount() == 0 {
		logger.Info("MatchLeave: Terminating empty match.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpDrawFromPile:
			mh.handleDrawFromPile(ctx, matchState, dispatcher, logger, msg)
		case OpTakeDiscard:
			mh.handleTakeDiscard(ctx, matchState, dispatcher, logger, msg)
		case OpDiscardCard:
			mh.handleDiscardCard(ctx, matchState, dispatcher, logger, msg)
		case OpDeclareMelds:
			mh.handleDeclareMelds(ctx, matchState, dispatcher, logger, msg)
		case OpExtendMeld:
			mh.handleExtendMeld(ctx, matchState, dispatcher, logger, msg)
		case OpCloseGame:
			mh.handleCloseGame(ctx, matchState, dispatcher, logger, msg)
		case OpSaveGame:
			mh.handleSaveGame(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processTurnTimer(matchState, dispatcher, logger)

	return matchState
}

// processTurnTimer arms a per-turn deadline at the configured turn duration
// (the tick rate is one per second) and forces the move when it passes: the
// current player's first card is discarded for them, or the game is closed
// on their behalf when their hand is already empty.
func (mh *matchHandler) processTurnTimer(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	game := state.Game
	if game == nil || game.IsClosed || len(game.Players) == 0 {
		state.TurnExpiresTick = 0
		return
	}

	if state.TurnExpiresTick == 0 || game.CurrentPlayerIndex != state.TurnIndex {
		state.TurnIndex = game.CurrentPlayerIndex
		state.TurnExpiresTick = state.Tick + int64(config.GetTurnDurationSeconds())
		return
	}
	if state.Tick < state.TurnExpiresTick {
		return
	}

	current := game.CurrentPlayer()
	if current == nil {
		state.TurnExpiresTick = 0
		return
	}
	logger.Info("TurnTimer: %s (index %d) timed out at tick %d.", current.Name, state.TurnIndex, state.Tick)

	if current.HandSize() == 0 {
		accepted, events, err := state.App.CloseGame(game, current.Name)
		if err != nil || !accepted {
			logger.Warn("TurnTimer: Could not close for %s: accepted=%v err=%v", current.Name, accepted, err)
			state.TurnExpiresTick = 0
			return
		}
		for _, ev := range events {
			mh.broadcastEvent(state, dispatcher, logger, ev)
		}
		mh.updateLabel(state, dispatcher, logger)
		state.TurnExpiresTick = 0
		return
	}

	events, err := state.App.DiscardCard(game, current.Name, current.Hand[0])
	if err != nil {
		logger.Error("TurnTimer: Forced discard for %s failed: %v", current.Name, err)
		state.TurnExpiresTick = 0
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	state.TurnExpiresTick = 0
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Game != nil {
		mh.sendError(state, dispatcher, logger, senderID, 409, "game already started")
		return
	}
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the owner can start the game")
		return
	}

	game, events, err := state.App.StartGame(state.seatedUserIDs())
	if err != nil {
		logger.Warn("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	state.Game = game
	mh.updateLabel(state, dispatcher, logger)

	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}

	logger.Info("StartGame: Game started with %d players.", len(game.Players))
}

func (mh *matchHandler) handleDrawFromPile(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 409, "game not started")
		return
	}

	events, err := state.App.DrawFromPile(state.Game, msg.GetUserId())
	if err != nil {
		logger.Warn("DrawFromPile: User %s failed to draw: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleTakeDiscard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 409, "game not started")
		return
	}

	events, err := state.App.TakeTopDiscard(state.Game, msg.GetUserId())
	if err != nil {
		logger.Warn("TakeDiscard: User %s failed to take discard: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleDiscardCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 409, "game not started")
		return
	}

	var request discardRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("DiscardCard: Invalid request from %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "invalid request")
		return
	}

	card := cardsFromWire([]wireCard{request.Card})[0]
	events, err := state.App.DiscardCard(state.Game, msg.GetUserId(), card)
	if err != nil {
		logger.Warn("DiscardCard: User %s failed to discard %v: %v", msg.GetUserId(), card, err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleDeclareMelds(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 409, "game not started")
		return
	}

	var request declareRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("DeclareMelds: Invalid request from %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "invalid request")
		return
	}
	melds, err := meldsFromWire(request.Melds)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}

	accepted, events, err := state.App.Declare(state.Game, msg.GetUserId(), melds)
	if err != nil {
		logger.Warn("DeclareMelds: User %s failed to declare: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	if !accepted {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 422, "declaration rejected")
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleExtendMeld(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 409, "game not started")
		return
	}

	var request extendRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("ExtendMeld: Invalid request from %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "invalid request")
		return
	}

	accepted, events, err := state.App.ExtendMeld(state.Game, msg.GetUserId(), request.MeldIndex, cardsFromWire(request.Cards))
	if err != nil {
		logger.Warn("ExtendMeld: User %s failed to extend meld %d: %v", msg.GetUserId(), request.MeldIndex, err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	if !accepted {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 422, "extension rejected")
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleCloseGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 409, "game not started")
		return
	}

	accepted, events, err := state.App.CloseGame(state.Game, msg.GetUserId())
	if err != nil {
		logger.Warn("CloseGame: User %s failed to close: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	if !accepted {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 422, "closure conditions not met")
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleSaveGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, senderID, 409, "game not started")
		return
	}
	if state.Resume == nil || state.Store == nil {
		mh.sendError(state, dispatcher, logger, senderID, 501, "saved games are not enabled")
		return
	}
	if state.seatOf(senderID) != state.OwnerSeat {
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the owner can save the game")
		return
	}

	saveKey, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	if saveKey == "" {
		mh.sendError(state, dispatcher, logger, senderID, 500, "match id unavailable")
		return
	}

	snap := state.Game.Snapshot()
	if err := state.Store.SaveSnapshot(ctx, senderID, saveKey, &snap); err != nil {
		logger.Error("SaveGame: Failed to store snapshot: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 500, "could not save game")
		return
	}

	token, err := state.Resume.GenerateToken(senderID, saveKey)
	if err != nil {
		logger.Error("SaveGame: Failed to issue resume token: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 500, "could not issue resume token")
		return
	}

	mh.sendTo(state, dispatcher, logger, senderID, OpGameSaved, gameSavedEvent{SaveKey: saveKey, Token: token})
	logger.Info("SaveGame: Snapshot saved under key %s for %s.", saveKey, senderID)
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	var players []wirePlayer
	for i, userID := range state.Seats {
		if userID == "" {
			continue
		}

		displayName := userID
		if p, exists := state.Presences[userID]; exists {
			displayName = p.GetUsername()
		}

		cardsRemaining := 0
		hasDeclared := false
		if state.Game != nil {
			if p, err := state.Game.FindPlayer(userID); err == nil {
				cardsRemaining = p.HandSize()
				hasDeclared = p.HasDeclared
			}
		}

		players = append(players, wirePlayer{
			UserID:         userID,
			Seat:           i,
			IsOwner:        i == state.OwnerSeat,
			CardsRemaining: cardsRemaining,
			HasDeclared:    hasDeclared,
			DisplayName:    displayName,
		})
	}

	payload := playerJoinedEvent{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		Players:   players,
	}
	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal match state: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpPlayerJoined, bytes, nil, nil, true)
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var payload interface{}

	switch ev.Kind {
	case app.EventGameStarted:
		opCode = OpGameStarted
		p := ev.Payload.(app.GameStartedPayload)
		logger.Debug("Event: game_started (players=%d, startIndex=%d)", len(p.PlayerNames), p.StartIndex)
		payload = gameStartedEvent{
			Players:    p.PlayerNames,
			StartIndex: p.StartIndex,
			TopDiscard: cardsToWire([]domain.Card{p.TopDiscard})[0],
		}
	case app.EventHandDealt:
		opCode = OpHandDealt
		p := ev.Payload.(app.HandDealtPayload)
		payload = handDealtEvent{Hand: cardsToWire(p.Hand)}
	case app.EventCardDrawn:
		opCode = OpCardDrawn
		p := ev.Payload.(app.CardDrawnPayload)
		payload = cardDrawnEvent{
			Card:          cardsToWire([]domain.Card{p.Card})[0],
			PileRemaining: state.Game.Deck.CardsRemaining(),
		}
	case app.EventDiscardTaken:
		opCode = OpDiscardTaken
		p := ev.Payload.(app.DiscardTakenPayload)
		payload = discardTakenEvent{
			Player: p.Name,
			Card:   cardsToWire([]domain.Card{p.Card})[0],
		}
	case app.EventCardDiscarded:
		opCode = OpCardDiscarded
		p := ev.Payload.(app.CardDiscardedPayload)
		payload = cardDiscardedEvent{
			Player:    p.Name,
			Card:      cardsToWire([]domain.Card{p.Card})[0],
			NextIndex: p.NextIndex,
			NewRound:  p.NewRound,
		}
	case app.EventMeldDeclared:
		opCode = OpMeldDeclared
		p := ev.Payload.(app.MeldDeclaredPayload)
		payload = meldDeclaredEvent{Player: p.Name, Melds: meldsToWire(p.Melds)}
	case app.EventMeldExtended:
		opCode = OpMeldExtended
		p := ev.Payload.(app.MeldExtendedPayload)
		payload = meldExtendedEvent{
			Player:    p.Name,
			MeldIndex: p.MeldIndex,
			Cards:     cardsToWire(p.Cards),
		}
	case app.EventGameClosed:
		opCode = OpGameClosed
		p := ev.Payload.(app.GameClosedPayload)
		payload = gameClosedEvent{Closer: p.CloserName, Scores: p.Scores}
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If the intended recipients are not connected we MUST NOT
		// broadcast a private payload to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// sendError sends a gameErrorEvent to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	mh.sendTo(state, dispatcher, logger, userID, OpGameError, gameErrorEvent{Code: code, Message: message})
}

func (mh *matchHandler) sendTo(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, opCode int64, payload interface{}) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal payload for opcode %d: %v", opCode, err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send opcode %d to %s: Presence not found", opCode, userID)
		return
	}

	dispatcher.BroadcastMessage(opCode, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) currentLabel(state *MatchState) matchLabel {
	phase := "lobby"
	if state.Game != nil {
		phase = "playing"
		if state.Game.IsClosed {
			phase = "closed"
		}
	}
	return matchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  "rummy",
		Phase: phase,
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelBytes, err := json.Marshal(mh.currentLabel(state))
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
