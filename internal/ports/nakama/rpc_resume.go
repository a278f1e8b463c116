package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"rummy/internal/app"
	"rummy/internal/domain"
	"rummy/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// ResumeGameRequest carries the resume token issued at save time.
type ResumeGameRequest struct {
	Token string `json:"token"`
}

// ResumeGameResponse is the payload returned for a successful resume.
type ResumeGameResponse struct {
	MatchID string `json:"match_id"`
}

// rpcResumeGame verifies a resume token, loads the saved snapshot it points
// at and creates a fresh match seeded with it. The caller then joins the
// returned match as usual.
func rpcResumeGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", 16)
	}

	var request ResumeGameRequest
	if err := json.Unmarshal([]byte(payload), &request); err != nil || request.Token == "" {
		return "", runtime.NewError("resume token is required", 3)
	}

	resume := resumeServiceFromEnv(ctx)
	if resume == nil {
		logger.Error("rpcResumeGame: rummy_resume_secret not set.")
		return "", runtime.NewError("saved games are not enabled", 12)
	}

	tokenUserID, saveKey, err := resume.VerifyToken(request.Token)
	if err != nil {
		logger.Warn("rpcResumeGame [User:%s]: Token rejected: %v", userID, err)
		return "", runtime.NewError("invalid resume token", 16)
	}
	if tokenUserID != userID {
		logger.Warn("rpcResumeGame [User:%s]: Token belongs to %s.", userID, tokenUserID)
		return "", runtime.NewError("invalid resume token", 16)
	}

	store := NewNakamaSnapshotStore(nk)
	snap, err := store.LoadSnapshot(ctx, userID, saveKey)
	if err != nil {
		if errors.Is(err, ports.ErrSnapshotNotFound) {
			return "", runtime.NewError("saved game not found", 5)
		}
		logger.Error("rpcResumeGame [User:%s]: Load failed: %v", userID, err)
		return "", runtime.NewError("could not load saved game", 13)
	}

	raw, err := domain.MarshalSnapshot(*snap)
	if err != nil {
		logger.Error("rpcResumeGame [User:%s]: Marshal failed: %v", userID, err)
		return "", runtime.NewError("could not load saved game", 13)
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameRummy, map[string]interface{}{
		"snapshot": string(raw),
	})
	if err != nil {
		logger.Error("rpcResumeGame [User:%s]: MatchCreate failed: %v", userID, err)
		return "", runtime.NewError("could not create match", 13)
	}

	logger.Info("rpcResumeGame [User:%s]: Resumed save %s as match %s.", userID, saveKey, matchID)
	resp := ResumeGameResponse{MatchID: matchID}
	b, _ := json.Marshal(resp)
	return string(b), nil
}

func resumeServiceFromEnv(ctx context.Context) *app.ResumeService {
	env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if !ok {
		return nil
	}
	secret := env["rummy_resume_secret"]
	if secret == "" {
		return nil
	}
	return app.NewResumeService(secret, MatchNameRummy, 0)
}
