package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// GetForAuth resolves a user without tenant scoping. Only the identity
	// layer may call it; everything else goes through GetByID.
	GetForAuth(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.User, error)
	CountByRole(ctx context.Context, orgID uuid.UUID, role string) (int, error)
	FindFirstByRole(ctx context.Context, orgID uuid.UUID, role string) (*models.User, error)
	CountAll(ctx context.Context) (int, error)
}

type userRepo struct {
	db DB
}

func NewUserRepo(db DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, organization_id, email, password_hash, first_name, last_name, phone, role, permissions, is_active, email_verified, last_login, created_by, created_at, updated_at`

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	// Emails are globally unique across organizations.
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE email = $1`, user.Email).Scan(&count); err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if count > 0 {
		return common.ValidationError(fmt.Sprintf("user with email '%s' already exists", user.Email))
	}

	permissions, err := marshalJSONB(user.Permissions)
	if err != nil {
		return fmt.Errorf("failed to marshal permissions: %w", err)
	}

	query := `
		INSERT INTO users (id, organization_id, email, password_hash, first_name, last_name, phone, role, permissions, is_active, email_verified, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, user.ID, user.OrganizationID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Phone, user.Role, permissions, user.IsActive, user.EmailVerified, user.CreatedBy)
	return err
}

func (r *userRepo) GetForAuth(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE organization_id = $1 AND id = $2`
	return r.scanOne(r.db.QueryRow(ctx, query, orgID, id))
}

func (r *userRepo) scanOne(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	var permissions []byte
	err := row.Scan(&user.ID, &user.OrganizationID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Phone, &user.Role, &permissions, &user.IsActive, &user.EmailVerified, &user.LastLogin, &user.CreatedBy, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("User")
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(permissions, &user.Permissions); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	permissions, err := marshalJSONB(user.Permissions)
	if err != nil {
		return fmt.Errorf("failed to marshal permissions: %w", err)
	}
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, phone = $3, permissions = $4, is_active = $5, email_verified = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err = r.db.Exec(ctx, query, user.FirstName, user.LastName, user.Phone, permissions, user.IsActive, user.EmailVerified, user.ID)
	return err
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login = NOW(), updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *userRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	query := `DELETE FROM users WHERE organization_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, orgID, id)
	return err
}

func (r *userRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE organization_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		var permissions []byte
		if err := rows.Scan(&user.ID, &user.OrganizationID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Phone, &user.Role, &permissions, &user.IsActive, &user.EmailVerified, &user.LastLogin, &user.CreatedBy, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalJSONB(permissions, &user.Permissions); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepo) CountByRole(ctx context.Context, orgID uuid.UUID, role string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE organization_id = $1 AND role = $2`
	err := r.db.QueryRow(ctx, query, orgID, role).Scan(&count)
	return count, err
}

func (r *userRepo) FindFirstByRole(ctx context.Context, orgID uuid.UUID, role string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE organization_id = $1 AND role = $2 ORDER BY created_at ASC LIMIT 1`
	return r.scanOne(r.db.QueryRow(ctx, query, orgID, role))
}

func (r *userRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
