package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"libnet/pkg/domain"
	txcontext "libnet/pkg/platform/tx"
)

// PostgresStore persists audit entries. Append honors an ambient transaction
// so an audit row commits or rolls back together with the mutation it
// records.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	query := `
		INSERT INTO audit_log (id, actor_id, action, entity, detail, at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		entry.ID, uuid.UUID(entry.ActorID), entry.Action, entry.Entity, entry.Detail, entry.At,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, actor_id, action, entity, detail, at
		FROM audit_log ORDER BY at DESC LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var entry Entry
		var actorID uuid.UUID
		if err := rows.Scan(&entry.ID, &actorID, &entry.Action, &entry.Entity, &entry.Detail, &entry.At); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.ActorID = domain.StaffID(actorID)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return out, nil
}
