package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/screening"
)

const createTableQuery = `CREATE TABLE IF NOT EXISTS %s (
	id UUID PRIMARY KEY,
	session_id UUID NOT NULL,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL,
	seniority TEXT NOT NULL,
	consent TEXT NOT NULL,
	reason TEXT NOT NULL,
	skills TEXT[] NOT NULL DEFAULT '{}',
	questions_count INTEGER NOT NULL,
	payload JSONB NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore inserts records into a single table.
type PostgresStore struct {
	db     *sql.DB
	table  string
	logger *zap.Logger
}

var _ screening.RecordStore = (*PostgresStore)(nil)

// OpenPostgres connects, verifies the connection and creates the table if needed.
func OpenPostgres(ctx context.Context, dsn, table string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := NewPostgresStore(db, table, logger)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStore wires an existing sql.DB.
func NewPostgresStore(db *sql.DB, table string, logger *zap.Logger) *PostgresStore {
	if table = strings.TrimSpace(table); table == "" {
		table = DefaultPostgresTable
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, table: table, logger: logger}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(createTableQuery, pq.QuoteIdentifier(s.table))); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	s.logger.Debug("postgres record table ready", zap.String("table", s.table))
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, record *screening.Record) error {
	query, args, err := insertQuery(s.table, record)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert record %s: %w", record.ID, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func insertQuery(table string, record *screening.Record) (string, []any, error) {
	payload, err := encode(record)
	if err != nil {
		return "", nil, err
	}

	query, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Insert(pq.QuoteIdentifier(table)).
		Columns(
			"id", "session_id", "full_name", "email", "seniority", "consent", "reason",
			"skills", "questions_count", "payload", "started_at", "completed_at",
		).
		Values(
			record.ID,
			record.SessionID,
			record.Profile.FullName,
			record.Profile.Email,
			record.Seniority,
			string(record.Consent),
			string(record.Reason),
			pq.StringArray(record.SkillNames()),
			len(record.Questions),
			string(payload),
			record.StartedAt,
			record.CompletedAt,
		).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build insert: %w", err)
	}
	return query, args, nil
}
