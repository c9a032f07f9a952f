package nakama

import "time"

const (
	// RpcCreateSoloMatch is the Nakama RPC id clients call to open a table against three bots.
	RpcCreateSoloMatch = "create_solo_match"

	// MatchNameSolo is the authoritative match handler name registered with Nakama.
	MatchNameSolo = "tienlen_solo"

	// ResultsCollection holds one storage object per finished game, owned by the human.
	ResultsCollection = "tienlen_results"
)

const (
	tickRate     = 5
	tickInterval = time.Second / tickRate
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame     int64 = 1
	OpPlayCards     int64 = 2
	OpPassTurn      int64 = 3
	OpSetDifficulty int64 = 4
	OpSyncState     int64 = 5

	// Server -> Client events
	OpGameStarted       int64 = 103
	OpHandDealt         int64 = 104 // send privately
	OpCardPlayed        int64 = 105
	OpTurnPassed        int64 = 106
	OpGameEnded         int64 = 107
	OpRoundCleared      int64 = 108
	OpPlayerFinished    int64 = 109
	OpBotRemark         int64 = 110
	OpDifficultyChanged int64 = 111
	OpMatchState        int64 = 112
	OpGameError         int64 = 113
)
