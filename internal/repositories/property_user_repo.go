package repositories

import (
	"context"

	"landledger/internal/models"

	"github.com/google/uuid"
)

type PropertyUserRepository interface {
	Assign(ctx context.Context, assignment *models.PropertyUser) error
	Unassign(ctx context.Context, propertyID, userID uuid.UUID) error
	ListUsers(ctx context.Context, propertyID uuid.UUID) ([]*models.AssignedUser, error)
	IsAssigned(ctx context.Context, propertyID, userID uuid.UUID) (bool, error)
}

type propertyUserRepo struct {
	db DBTX
}

func NewPropertyUserRepo(db DBTX) PropertyUserRepository {
	return &propertyUserRepo{db: db}
}

func (r *propertyUserRepo) Assign(ctx context.Context, assignment *models.PropertyUser) error {
	query := `
		INSERT INTO property_users (id, property_id, user_id, assigned_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (property_id, user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, assignment.ID, assignment.PropertyID, assignment.UserID)
	return err
}

func (r *propertyUserRepo) Unassign(ctx context.Context, propertyID, userID uuid.UUID) error {
	query := `DELETE FROM property_users WHERE property_id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, propertyID, userID)
	return err
}

func (r *propertyUserRepo) ListUsers(ctx context.Context, propertyID uuid.UUID) ([]*models.AssignedUser, error) {
	query := `
		SELECT u.id, u.name, u.email, u.role, pu.assigned_at
		FROM property_users pu
		JOIN users u ON pu.user_id = u.id
		WHERE pu.property_id = $1
		ORDER BY pu.assigned_at DESC
	`
	rows, err := r.db.Query(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.AssignedUser
	for rows.Next() {
		u := &models.AssignedUser{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.AssignedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *propertyUserRepo) IsAssigned(ctx context.Context, propertyID, userID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM property_users WHERE property_id = $1 AND user_id = $2`
	err := r.db.QueryRow(ctx, query, propertyID, userID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
