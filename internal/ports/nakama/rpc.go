package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"tienlen/internal/bot"

	"github.com/heroiclabs/nakama-common/runtime"
)

// gRPC status codes used by runtime.NewError.
const (
	codeInvalidArgument = 3
	codeInternal        = 13
	codeUnauthenticated = 16
)

// RegisterRPCs wires every RPC this module exposes.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcCreateSoloMatch, RpcCreateSoloMatchFn)
}

type createSoloMatchRequest struct {
	Difficulty string `json:"difficulty"`
}

type createSoloMatchResponse struct {
	MatchID string `json:"match_id"`
}

// matchCreator is the part of runtime.NakamaModule the RPC needs.
type matchCreator interface {
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
}

// RpcCreateSoloMatch creates a fresh match for the caller against three bots.
//
// Payload: optional JSON {"difficulty": "easy"|"medium"|"hard"}.
// Returns: JSON {"match_id": "..."}.
func RpcCreateSoloMatchFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return createSoloMatch(ctx, logger, nk, payload)
}

func createSoloMatch(ctx context.Context, logger runtime.Logger, nk matchCreator, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", codeUnauthenticated)
	}

	var req createSoloMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", codeInvalidArgument)
		}
	}
	params := map[string]interface{}{paramHumanID: userID}
	if req.Difficulty != "" {
		level, err := bot.ParseDifficulty(req.Difficulty)
		if err != nil {
			return "", runtime.NewError(err.Error(), codeInvalidArgument)
		}
		params[paramDifficulty] = string(level)
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameSolo, params)
	if err != nil {
		logger.Error("RpcCreateSoloMatch [User:%s]: Failed to create match: %v", userID, err)
		return "", runtime.NewError("failed to create match", codeInternal)
	}
	logger.Info("RpcCreateSoloMatch [User:%s]: Created match %s", userID, matchID)

	out, err := json.Marshal(createSoloMatchResponse{MatchID: matchID})
	if err != nil {
		return "", runtime.NewError("failed to encode response", codeInternal)
	}
	return string(out), nil
}
