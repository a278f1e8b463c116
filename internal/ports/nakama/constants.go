package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a table with open seats.
	RpcQuickMatch = "quick_match"

	// RpcResumeGame is the Nakama RPC id clients call with a resume token to
	// recreate a match from a saved snapshot.
	RpcResumeGame = "resume_game"

	// MatchNameRummy is the authoritative match handler name registered with Nakama.
	MatchNameRummy = "rummy_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame    int64 = 1
	OpDrawFromPile int64 = 2
	OpTakeDiscard  int64 = 3
	OpDiscardCard  int64 = 4
	OpDeclareMelds int64 = 5
	OpExtendMeld   int64 = 6
	OpCloseGame    int64 = 7
	OpSaveGame     int64 = 8

	// Server -> Client events
	OpPlayerJoined  int64 = 101
	OpGameStarted   int64 = 102
	OpHandDealt     int64 = 103 // send privately
	OpCardDrawn     int64 = 104 // send privately
	OpDiscardTaken  int64 = 105
	OpCardDiscarded int64 = 106
	OpMeldDeclared  int64 = 107
	OpMeldExtended  int64 = 108
	OpGameClosed    int64 = 109
	OpGameSaved     int64 = 110 // send privately
	OpGameError     int64 = 111
)
