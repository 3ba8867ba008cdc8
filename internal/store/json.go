package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fireledger/fireledger/internal/model"

	"github.com/sirupsen/logrus"
)

// File names match the layout of the mobile app's documents directory.
const (
	SavingsFile = "savings.json"
	ProfileFile = "fire_goals.json"
	GoalsFile   = "goals.json"
)

// JSONStore keeps each collection in its own JSON file under a directory.
type JSONStore struct {
	dir string
	log logrus.FieldLogger
	mu  sync.Mutex
}

// OpenJSON creates dir if needed and returns a store rooted there.
func OpenJSON(dir string, log logrus.FieldLogger) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &JSONStore{dir: dir, log: log.WithField("backend", "json")}, nil
}

// Close is a no-op; files are not held open between calls.
func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) LoadRecords(ctx context.Context) ([]model.SavingsRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadList[model.SavingsRecord](ctx, s, SavingsFile)
}

func (s *JSONStore) AppendRecord(ctx context.Context, r model.SavingsRecord) error {
	return updateList(ctx, s, SavingsFile, func(items []model.SavingsRecord) ([]model.SavingsRecord, error) {
		return append(items, r), nil
	})
}

func (s *JSONStore) ReplaceRecord(ctx context.Context, index int, r model.SavingsRecord) error {
	return updateList(ctx, s, SavingsFile, func(items []model.SavingsRecord) ([]model.SavingsRecord, error) {
		return replaceAt(items, index, r)
	})
}

func (s *JSONStore) RemoveRecord(ctx context.Context, index int) error {
	return updateList(ctx, s, SavingsFile, func(items []model.SavingsRecord) ([]model.SavingsRecord, error) {
		return removeAt(items, index)
	})
}

func (s *JSONStore) LoadGoals(ctx context.Context) ([]model.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadList[model.SavingsGoal](ctx, s, GoalsFile)
}

func (s *JSONStore) AppendGoal(ctx context.Context, g model.SavingsGoal) error {
	return updateList(ctx, s, GoalsFile, func(items []model.SavingsGoal) ([]model.SavingsGoal, error) {
		return append(items, g), nil
	})
}

func (s *JSONStore) ReplaceGoal(ctx context.Context, index int, g model.SavingsGoal) error {
	return updateList(ctx, s, GoalsFile, func(items []model.SavingsGoal) ([]model.SavingsGoal, error) {
		return replaceAt(items, index, g)
	})
}

func (s *JSONStore) RemoveGoal(ctx context.Context, index int) error {
	return updateList(ctx, s, GoalsFile, func(items []model.SavingsGoal) ([]model.SavingsGoal, error) {
		return removeAt(items, index)
	})
}

func (s *JSONStore) LoadProfile(ctx context.Context) (model.FireGoalProfile, error) {
	if err := ctx.Err(); err != nil {
		return model.FireGoalProfile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var p model.FireGoalProfile
	found, err := s.readFile(ProfileFile, &p)
	if err != nil {
		return model.FireGoalProfile{}, err
	}
	if !found {
		s.log.Debug("no saved FIRE profile, using defaults")
		return model.DefaultFireGoalProfile(), nil
	}
	return p, nil
}

func (s *JSONStore) SaveProfile(ctx context.Context, p model.FireGoalProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeFile(ProfileFile, p)
}

func loadList[T any](ctx context.Context, s *JSONStore, name string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := make([]T, 0)
	if _, err := s.readFile(name, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = make([]T, 0)
	}
	return items, nil
}

func updateList[T any](ctx context.Context, s *JSONStore, name string, fn func([]T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := loadList[T](ctx, s, name)
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	return s.writeFile(name, items)
}

// readFile decodes name into v. A missing file reports found=false.
func (s *JSONStore) readFile(name string, v any) (bool, error) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path) //nolint:gosec // path is built from the data dir
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parsing %s: %w", name, err)
	}
	return true, nil
}

// writeFile replaces name atomically via a temp file and rename.
func (s *JSONStore) writeFile(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}

	s.log.WithFields(logrus.Fields{"file": name, "bytes": len(data)}).Debug("wrote collection")
	return nil
}
