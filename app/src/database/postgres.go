package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"quote-frontend/app/src/domain"
	"quote-frontend/app/src/infra"
)

const (
	insertQuoteSQL  = `INSERT INTO public.quotes (quote) VALUES ($1) ON CONFLICT (quote) DO NOTHING`
	selectQuotesSQL = `SELECT quote FROM public.quotes ORDER BY id`
	randomQuoteSQL  = `SELECT quote FROM public.quotes ORDER BY random() LIMIT 1`
)

// PostgresRepository stores quotes in the quotes table.
type PostgresRepository struct {
	db     *sql.DB
	logger *infra.Logger
}

var _ domain.QuoteRepository = (*PostgresRepository)(nil)

func NewPostgresRepository(db *sql.DB, logger *infra.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, logger: logger}
}

// Add inserts a quote. Re-adding an existing quote is a no-op.
func (r *PostgresRepository) Add(ctx context.Context, quote string) error {
	quote = strings.TrimSpace(quote)
	if quote == "" {
		return domain.ErrEmptyQuote
	}

	res, err := r.db.ExecContext(ctx, insertQuoteSQL, quote)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 && r.logger != nil {
		r.logger.Debugf(ctx, "quote already stored, skipping")
	}
	return nil
}

// All returns every quote in insertion order.
func (r *PostgresRepository) All(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, selectQuotesSQL)
	if err != nil {
		return nil, fmt.Errorf("select quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]string, 0)
	for rows.Next() {
		var quote string
		if err := rows.Scan(&quote); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, quote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}
	return quotes, nil
}

func (r *PostgresRepository) Random(ctx context.Context) (string, error) {
	var quote string
	err := r.db.QueryRowContext(ctx, randomQuoteSQL).Scan(&quote)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrQuoteNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select random quote: %w", err)
	}
	return quote, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
