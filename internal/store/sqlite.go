package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fireledger/fireledger/internal/model"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLiteStore keeps records, goals and the profile in one SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	log logrus.FieldLogger
	mu  sync.Mutex
}

// OpenSQLite opens or creates the database at dbPath.
func OpenSQLite(dbPath string, log logrus.FieldLogger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating database dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db, log: log.WithField("backend", "sqlite")}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadRecords(ctx context.Context) ([]model.SavingsRecord, error) {
	return queryRecords(ctx, s.db)
}

func (s *SQLiteStore) AppendRecord(ctx context.Context, r model.SavingsRecord) error {
	return s.rewriteRecords(ctx, func(items []model.SavingsRecord) ([]model.SavingsRecord, error) {
		return append(items, r), nil
	})
}

func (s *SQLiteStore) ReplaceRecord(ctx context.Context, index int, r model.SavingsRecord) error {
	return s.rewriteRecords(ctx, func(items []model.SavingsRecord) ([]model.SavingsRecord, error) {
		return replaceAt(items, index, r)
	})
}

func (s *SQLiteStore) RemoveRecord(ctx context.Context, index int) error {
	return s.rewriteRecords(ctx, func(items []model.SavingsRecord) ([]model.SavingsRecord, error) {
		return removeAt(items, index)
	})
}

func (s *SQLiteStore) LoadGoals(ctx context.Context) ([]model.SavingsGoal, error) {
	return queryGoals(ctx, s.db)
}

func (s *SQLiteStore) AppendGoal(ctx context.Context, g model.SavingsGoal) error {
	return s.rewriteGoals(ctx, func(items []model.SavingsGoal) ([]model.SavingsGoal, error) {
		return append(items, g), nil
	})
}

func (s *SQLiteStore) ReplaceGoal(ctx context.Context, index int, g model.SavingsGoal) error {
	return s.rewriteGoals(ctx, func(items []model.SavingsGoal) ([]model.SavingsGoal, error) {
		return replaceAt(items, index, g)
	})
}

func (s *SQLiteStore) RemoveGoal(ctx context.Context, index int) error {
	return s.rewriteGoals(ctx, func(items []model.SavingsGoal) ([]model.SavingsGoal, error) {
		return removeAt(items, index)
	})
}

func (s *SQLiteStore) LoadProfile(ctx context.Context) (model.FireGoalProfile, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM fire_profile WHERE id = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		s.log.Debug("no saved FIRE profile, using defaults")
		return model.DefaultFireGoalProfile(), nil
	}
	if err != nil {
		return model.FireGoalProfile{}, fmt.Errorf("loading profile: %w", err)
	}

	var p model.FireGoalProfile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return model.FireGoalProfile{}, fmt.Errorf("decoding profile: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) SaveProfile(ctx context.Context, p model.FireGoalProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO fire_profile (id, data, saved_at) VALUES (1, ?, ?)`,
		string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryRecords(ctx context.Context, q queryer) ([]model.SavingsRecord, error) {
	rows, err := q.QueryContext(ctx, `SELECT
		name, category, amount, maturity_amount, start_date, end_date, comments, attachment
		FROM savings ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying savings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]model.SavingsRecord, 0)
	for rows.Next() {
		var r model.SavingsRecord
		var category string
		var start, end, comments, attachment sql.NullString
		if err := rows.Scan(&r.Name, &category, &r.Amount, &r.MaturityAmount,
			&start, &end, &comments, &attachment); err != nil {
			return nil, err
		}
		r.Category = model.Category(category)
		r.Comments = comments.String
		r.Attachment = model.Attachment(attachment.String)
		if r.StartDate, err = model.ParseDate(start.String); err != nil {
			return nil, err
		}
		if r.EndDate, err = model.ParseDate(end.String); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func queryGoals(ctx context.Context, q queryer) ([]model.SavingsGoal, error) {
	rows, err := q.QueryContext(ctx, `SELECT
		name, goal_type, target_amount, current_amount, start_date, target_date, status, priority
		FROM goals ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	goals := make([]model.SavingsGoal, 0)
	for rows.Next() {
		var g model.SavingsGoal
		var goalType, start, target, status, priority sql.NullString
		if err := rows.Scan(&g.Name, &goalType, &g.TargetAmount, &g.CurrentAmount,
			&start, &target, &status, &priority); err != nil {
			return nil, err
		}
		g.Type = goalType.String
		g.Status = model.GoalStatus(status.String)
		g.Priority = model.GoalPriority(priority.String)
		if g.StartDate, err = model.ParseDate(start.String); err != nil {
			return nil, err
		}
		if g.TargetDate, err = model.ParseDate(target.String); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// rewriteRecords loads, edits and rewrites the whole savings table in one transaction.
func (s *SQLiteStore) rewriteRecords(ctx context.Context, fn func([]model.SavingsRecord) ([]model.SavingsRecord, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	records, err := queryRecords(ctx, tx)
	if err != nil {
		return err
	}
	records, err = fn(records)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM savings"); err != nil {
		return err
	}
	for i, r := range records {
		_, err = tx.ExecContext(ctx, `INSERT INTO savings
			(position, name, category, amount, maturity_amount, start_date, end_date, comments, attachment)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, r.Name, string(r.Category), r.Amount, r.MaturityAmount,
			r.StartDate.String(), r.EndDate.String(), r.Comments, string(r.Attachment),
		)
		if err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.WithField("records", len(records)).Debug("rewrote savings")
	return nil
}

// rewriteGoals is rewriteRecords for the goals table.
func (s *SQLiteStore) rewriteGoals(ctx context.Context, fn func([]model.SavingsGoal) ([]model.SavingsGoal, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	goals, err := queryGoals(ctx, tx)
	if err != nil {
		return err
	}
	goals, err = fn(goals)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM goals"); err != nil {
		return err
	}
	for i, g := range goals {
		_, err = tx.ExecContext(ctx, `INSERT INTO goals
			(position, name, goal_type, target_amount, current_amount, start_date, target_date, status, priority)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, g.Name, g.Type, g.TargetAmount, g.CurrentAmount,
			g.StartDate.String(), g.TargetDate.String(), string(g.Status), string(g.Priority),
		)
		if err != nil {
			return fmt.Errorf("inserting goal %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.WithField("goals", len(goals)).Debug("rewrote goals")
	return nil
}
