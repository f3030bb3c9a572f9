package repository

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/mizow1/satelite-column11/internal/model"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts the user together with default settings. Returns false
// without error when the email is already registered.
func (r *UserRepository) CreateUser(user *model.User) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	user.ID = uuid.NewString()
	user.APIToken = uuid.NewString()

	err = tx.QueryRow(`
		INSERT INTO users(id, email, name, password_hash, api_token)
		VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`, user.ID, user.Email, user.Name, user.PasswordHash, user.APIToken).Scan(&user.ID)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	_, err = tx.Exec(`
		INSERT INTO user_settings(user_id) VALUES($1)
	`, user.ID)
	if err != nil {
		return false, err
	}

	return true, tx.Commit()
}

func (r *UserRepository) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var resetToken sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.APIToken, &resetToken, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.ResetToken = fromNullString(resetToken)
	return &u, nil
}

const userColumns = "id, email, name, password_hash, api_token, reset_token, created_at"

func (r *UserRepository) GetByID(id string) (*model.User, error) {
	return r.scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	return r.scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) GetByAPIToken(token string) (*model.User, error) {
	return r.scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE api_token = $1`, token))
}

func (r *UserRepository) GetByResetToken(token string) (*model.User, error) {
	return r.scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE reset_token = $1`, token))
}

func (r *UserRepository) SetResetToken(userID, token string) error {
	_, err := r.db.Exec(`UPDATE users SET reset_token = $1 WHERE id = $2`, token, userID)
	return err
}

func (r *UserRepository) UpdatePassword(userID, passwordHash string) error {
	_, err := r.db.Exec(`
		UPDATE users SET password_hash = $1, reset_token = NULL WHERE id = $2
	`, passwordHash, userID)
	return err
}

func (r *UserRepository) GetSettings(userID string) (*model.UserSettings, error) {
	var s model.UserSettings
	err := r.db.QueryRow(`
		SELECT user_id, ai_service, token_limit_monthly, email_notifications
		FROM user_settings
		WHERE user_id = $1
	`, userID).Scan(&s.UserID, &s.AIService, &s.TokenLimitMonthly, &s.EmailNotifications)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *UserRepository) UpdateSettings(s *model.UserSettings) error {
	_, err := r.db.Exec(`
		UPDATE user_settings
		SET ai_service = $1, token_limit_monthly = $2, email_notifications = $3
		WHERE user_id = $4
	`, s.AIService, s.TokenLimitMonthly, s.EmailNotifications, s.UserID)
	return err
}

// GetProposalTargets lists users with email notifications enabled and at
// least one site with a content policy. Each user appears once with their
// most recently updated qualifying site.
func (r *UserRepository) GetProposalTargets() ([]model.ProposalTarget, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT ON (u.id)
			u.id, u.email, u.name, st.ai_service,
			s.id, s.name, s.content_policy
		FROM users u
		JOIN user_settings st ON st.user_id = u.id AND st.email_notifications
		JOIN sites s ON s.user_id = u.id AND s.content_policy IS NOT NULL
		ORDER BY u.id, s.updated_at DESC
	`)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []model.ProposalTarget
	for rows.Next() {
		var t model.ProposalTarget
		err := rows.Scan(&t.UserID, &t.Email, &t.Name, &t.AIService, &t.SiteID, &t.SiteName, &t.ContentPolicy)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return targets, nil
}
