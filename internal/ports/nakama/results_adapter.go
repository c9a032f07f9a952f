package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"tienlen/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// storageWriter is the part of runtime.NakamaModule the recorder needs.
type storageWriter interface {
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

// NakamaResultRecorder implements ports.ResultRecorder on Nakama storage.
// Each result is owned by the human and readable only by them.
type NakamaResultRecorder struct {
	nk storageWriter
}

func NewNakamaResultRecorder(nk storageWriter) *NakamaResultRecorder {
	return &NakamaResultRecorder{nk: nk}
}

func (r *NakamaResultRecorder) RecordResult(ctx context.Context, result ports.GameResult) error {
	value, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, err = r.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      ResultsCollection,
		Key:             result.ID,
		UserID:          result.HumanID,
		Value:           string(value),
		PermissionRead:  1,
		PermissionWrite: 0,
	}})
	if err != nil {
		return fmt.Errorf("failed to store result %s: %w", result.ID, err)
	}
	return nil
}
