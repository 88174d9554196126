package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"prowl/internal/model"
	"prowl/internal/service"
)

// defaultListLimit caps unfiltered match listings.
const defaultListLimit = 50

// SaveMatch persists one match record.
func (s *SQLiteStore) SaveMatch(ctx context.Context, record *model.MatchRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMatchRecord(record); err != nil {
		return err
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	keywords, err := json.Marshal(record.MatchedKeywords)
	if err != nil {
		return fmt.Errorf("failed to marshal matched keywords: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO matches (
			id, product_name, matched_keywords, price, currency,
			channel, message_id, message_text, message_link,
			message_date, notify, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.ProductName,
		string(keywords),
		record.Price,
		record.Currency,
		record.Channel,
		record.MessageID,
		record.MessageText,
		record.MessageLink,
		record.MessageDate,
		record.Notify,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}

	return nil
}

// ListMatches returns stored matches, newest first, honoring the filter.
func (s *SQLiteStore) ListMatches(ctx context.Context, filter service.MatchFilter) ([]model.MatchRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, product_name, matched_keywords, price, currency,
		       channel, message_id, message_text, message_link,
		       message_date, notify, created_at
		FROM matches
		WHERE 1=1`
	args := make([]any, 0, 3)

	if filter.Product != "" {
		query += ` AND product_name = ?`
		args = append(args, filter.Product)
	}
	if filter.Channel != "" {
		query += ` AND channel = ?`
		args = append(args, filter.Channel)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.MatchRecord
	for rows.Next() {
		record, err := scanMatchRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}

	return records, nil
}

// CountMatches returns the total number of stored matches.
func (s *SQLiteStore) CountMatches(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

// scanMatchRecord reads one row into a MatchRecord.
func scanMatchRecord(rows *sql.Rows) (model.MatchRecord, error) {
	var (
		record      model.MatchRecord
		keywords    string
		price       sql.NullFloat64
		currency    sql.NullString
		messageLink sql.NullString
		messageDate sql.NullTime
	)

	if err := rows.Scan(
		&record.ID,
		&record.ProductName,
		&keywords,
		&price,
		&currency,
		&record.Channel,
		&record.MessageID,
		&record.MessageText,
		&messageLink,
		&messageDate,
		&record.Notify,
		&record.CreatedAt,
	); err != nil {
		return model.MatchRecord{}, fmt.Errorf("failed to scan match row: %w", err)
	}

	if err := json.Unmarshal([]byte(keywords), &record.MatchedKeywords); err != nil {
		return model.MatchRecord{}, fmt.Errorf("failed to unmarshal matched keywords: %w", err)
	}

	if price.Valid {
		record.Price = &price.Float64
	}
	record.Currency = currency.String
	record.MessageLink = messageLink.String
	if messageDate.Valid {
		record.MessageDate = messageDate.Time
	}

	return record, nil
}
