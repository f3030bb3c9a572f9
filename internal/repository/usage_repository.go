package repository

import (
	"database/sql"

	"github.com/mizow1/satelite-column11/internal/model"
)

// UsageRepository is the token usage ledger: append-only rows aggregated by
// sum. Rows are never updated or deleted.
type UsageRepository struct {
	db *sql.DB
}

func NewUsageRepository(db *sql.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) Record(userID, aiService string, tokensUsed int64) error {
	_, err := r.db.Exec(`
		INSERT INTO token_usage(user_id, ai_service, tokens_used)
		VALUES($1, $2, $3)
	`, userID, aiService, tokensUsed)
	return err
}

func (r *UsageRepository) TotalUsage(userID string) (int64, error) {
	var total int64
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(tokens_used), 0)
		FROM token_usage
		WHERE user_id = $1
	`, userID).Scan(&total)
	return total, err
}

// MonthlyUsage sums the current calendar month, evaluated against the
// database clock.
func (r *UsageRepository) MonthlyUsage(userID string) (int64, error) {
	var total int64
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(tokens_used), 0)
		FROM token_usage
		WHERE user_id = $1
		  AND usage_date >= date_trunc('month', now())
		  AND usage_date < date_trunc('month', now()) + interval '1 month'
	`, userID).Scan(&total)
	return total, err
}

// CheckLimit reports whether the user may trigger another generation. A user
// without a settings row is denied; usage exactly at the limit is denied.
func (r *UsageRepository) CheckLimit(userID string) (bool, error) {
	var limit int64
	err := r.db.QueryRow(`
		SELECT token_limit_monthly FROM user_settings WHERE user_id = $1
	`, userID).Scan(&limit)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	monthly, err := r.MonthlyUsage(userID)
	if err != nil {
		return false, err
	}

	return monthly < limit, nil
}

func (r *UsageRepository) UsageByService(userID string) (map[string]int64, error) {
	rows, err := r.db.Query(`
		SELECT ai_service, SUM(tokens_used)
		FROM token_usage
		WHERE user_id = $1
		  AND usage_date >= date_trunc('month', now())
		  AND usage_date < date_trunc('month', now()) + interval '1 month'
		GROUP BY ai_service
	`, userID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var service string
		var total int64
		if err := rows.Scan(&service, &total); err != nil {
			return nil, err
		}
		result[service] = total
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// DailyUsage sums the trailing days-day window grouped by calendar date,
// ascending. Days with no recorded usage are omitted.
func (r *UsageRepository) DailyUsage(userID string, days int) ([]model.DailyUsage, error) {
	rows, err := r.db.Query(`
		SELECT date_trunc('day', usage_date)::date AS day, SUM(tokens_used)
		FROM token_usage
		WHERE user_id = $1
		  AND usage_date >= now() - make_interval(days => $2)
		GROUP BY day
		ORDER BY day ASC
	`, userID, days)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []model.DailyUsage
	for rows.Next() {
		var d model.DailyUsage
		if err := rows.Scan(&d.Date, &d.TokensUsed); err != nil {
			return nil, err
		}
		usage = append(usage, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return usage, nil
}
