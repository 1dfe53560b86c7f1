package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) SaveRun(ctx context.Context, r Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO search_runs (id, term, corpus, tags, requested, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.Term, r.Corpus, r.Tags, r.Requested, r.Total, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO hits (run_id, position, left_context, keyword, right_context)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, h := range r.Hits {
		if _, err := stmt.ExecContext(ctx, r.ID, i, h.Left, h.Keyword, h.Right); err != nil {
			return fmt.Errorf("could not insert hit %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("saved run", slog.String("id", r.ID.String()), slog.Int("hits", len(r.Hits)))
	return nil
}

func (s *PostgresStorage) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.term, r.corpus, r.total, r.created_at, COUNT(h.position)
		FROM search_runs r
		LEFT JOIN hits h ON h.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		slog.Error("recent runs query failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Term, &r.Corpus, &r.Total, &r.CreatedAt, &r.Hits); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
