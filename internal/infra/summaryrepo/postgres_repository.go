package summaryrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/djvaroli/brevity/internal/domain/summarizer"
)

// PostgresRepository implements summarizer.HistoryRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Append inserts a completed summary.
func (r *PostgresRepository) Append(ctx context.Context, rec summarizer.HistoryRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO summaries (
			id, url, model, summary_length, title, content,
			input_cost, output_cost, total_cost,
			num_input_tokens, num_output_tokens, num_chunks, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		rec.ID, rec.URL, string(rec.Model), string(rec.SummaryLength), rec.Title, rec.Content,
		rec.InputCost, rec.OutputCost, rec.TotalCost,
		rec.NumInputTokens, rec.NumOutputTokens, rec.NumChunks, rec.CreatedAt,
	)
	return err
}

// ListRecent returns the newest records first.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]summarizer.HistoryRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, url, model, summary_length, title, content,
		       input_cost, output_cost, total_cost,
		       num_input_tokens, num_output_tokens, num_chunks, created_at
		FROM summaries
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]summarizer.HistoryRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (summarizer.HistoryRecord, error) {
	var (
		rec           summarizer.HistoryRecord
		model, length string
	)
	if err := row.Scan(
		&rec.ID, &rec.URL, &model, &length, &rec.Title, &rec.Content,
		&rec.InputCost, &rec.OutputCost, &rec.TotalCost,
		&rec.NumInputTokens, &rec.NumOutputTokens, &rec.NumChunks, &rec.CreatedAt,
	); err != nil {
		return summarizer.HistoryRecord{}, err
	}
	rec.Model = summarizer.Model(model)
	rec.SummaryLength = summarizer.SummaryLength(length)
	return rec, nil
}

var _ summarizer.HistoryRepository = (*PostgresRepository)(nil)
