// Package store persists savings records, savings goals and the FIRE profile.
//
// Every write rewrites the whole collection. Records and goals are addressed
// by position; validating an index is the caller's job, and a bad one is
// reported as ErrIndexOutOfRange rather than ignored.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/fireledger/fireledger/internal/config"
	"github.com/fireledger/fireledger/internal/model"

	"github.com/sirupsen/logrus"
)

// ErrIndexOutOfRange is wrapped by replace/remove calls given a bad position.
var ErrIndexOutOfRange = errors.New("index out of range")

// Store is the storage collaborator the engines read snapshots from.
type Store interface {
	// LoadRecords returns every record, or an empty slice if none were saved.
	LoadRecords(ctx context.Context) ([]model.SavingsRecord, error)
	AppendRecord(ctx context.Context, r model.SavingsRecord) error
	ReplaceRecord(ctx context.Context, index int, r model.SavingsRecord) error
	RemoveRecord(ctx context.Context, index int) error

	LoadGoals(ctx context.Context) ([]model.SavingsGoal, error)
	AppendGoal(ctx context.Context, g model.SavingsGoal) error
	ReplaceGoal(ctx context.Context, index int, g model.SavingsGoal) error
	RemoveGoal(ctx context.Context, index int) error

	// LoadProfile returns the saved profile or model.DefaultFireGoalProfile.
	LoadProfile(ctx context.Context) (model.FireGoalProfile, error)
	SaveProfile(ctx context.Context, p model.FireGoalProfile) error

	Close() error
}

// Open returns the backend selected by cfg.Storage.Backend.
func Open(cfg config.Config, log logrus.FieldLogger) (Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendJSON, "":
		return OpenJSON(cfg.ResolvedDataDir(), log)
	case config.BackendSQLite:
		return OpenSQLite(cfg.ResolvedSQLitePath(), log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func checkIndex(index, length int) error {
	if index < 0 || index >= length {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, length)
	}
	return nil
}

func replaceAt[T any](items []T, index int, v T) ([]T, error) {
	if err := checkIndex(index, len(items)); err != nil {
		return nil, err
	}
	items[index] = v
	return items, nil
}

func removeAt[T any](items []T, index int) ([]T, error) {
	if err := checkIndex(index, len(items)); err != nil {
		return nil, err
	}
	return append(items[:index], items[index+1:]...), nil
}
