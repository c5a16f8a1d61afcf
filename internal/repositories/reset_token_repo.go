package repositories

import (
	"context"

	"landledger/internal/models"
)

type ResetTokenRepository interface {
	// Replace deletes any existing token rows for the user and inserts the
	// new one. Delete happens-before insert within a request; across
	// concurrent requests for the same user, last writer wins.
	Replace(ctx context.Context, token *models.PasswordResetToken) error
	// GetValid returns the token row only while expires_at is in the future.
	GetValid(ctx context.Context, token string) (*models.PasswordResetToken, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type resetTokenRepo struct {
	db DBTX
}

func NewResetTokenRepo(db DBTX) ResetTokenRepository {
	return &resetTokenRepo{db: db}
}

func (r *resetTokenRepo) Replace(ctx context.Context, token *models.PasswordResetToken) error {
	deleteQuery := `DELETE FROM password_reset_tokens WHERE user_id = $1`
	if _, err := r.db.Exec(ctx, deleteQuery, token.UserID); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO password_reset_tokens (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, insertQuery, token.ID, token.UserID, token.Token, token.ExpiresAt)
	return err
}

func (r *resetTokenRepo) GetValid(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	row := &models.PasswordResetToken{}
	query := `
		SELECT id, user_id, token, expires_at, created_at
		FROM password_reset_tokens
		WHERE token = $1 AND expires_at > NOW()
	`
	err := r.db.QueryRow(ctx, query, token).Scan(&row.ID, &row.UserID, &row.Token, &row.ExpiresAt, &row.CreatedAt)
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *resetTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM password_reset_tokens WHERE token = $1`
	_, err := r.db.Exec(ctx, query, token)
	return err
}

func (r *resetTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM password_reset_tokens WHERE expires_at <= NOW()`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
