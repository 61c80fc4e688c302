package repositories

import (
	"context"

	"github.com/google/uuid"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListForCustomer(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Notification, error)
	ListForUser(ctx context.Context, orgID, userID uuid.UUID, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, orgID, id uuid.UUID) error
}

type notificationRepo struct {
	db DB
}

func NewNotificationRepo(db DB) NotificationRepository {
	return &notificationRepo{db: db}
}

const notificationColumns = `id, organization_id, user_id, customer_id, title, message, type, priority, is_read, read_at, created_at`

func (r *notificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (id, organization_id, user_id, customer_id, title, message, type, priority, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err := r.db.Exec(ctx, query, notification.ID, notification.OrganizationID, notification.UserID, notification.CustomerID, notification.Title, notification.Message, notification.Type, notification.Priority, notification.IsRead)
	return err
}

func (r *notificationRepo) ListForCustomer(ctx context.Context, orgID, customerID uuid.UUID, limit, offset int) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE organization_id = $1 AND customer_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	return r.list(ctx, query, orgID, customerID, limit, offset)
}

func (r *notificationRepo) ListForUser(ctx context.Context, orgID, userID uuid.UUID, limit, offset int) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE organization_id = $1 AND user_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	return r.list(ctx, query, orgID, userID, limit, offset)
}

func (r *notificationRepo) list(ctx context.Context, query string, args ...any) ([]*models.Notification, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		notification := &models.Notification{}
		if err := rows.Scan(&notification.ID, &notification.OrganizationID, &notification.UserID, &notification.CustomerID, &notification.Title, &notification.Message, &notification.Type, &notification.Priority, &notification.IsRead, &notification.ReadAt, &notification.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}

func (r *notificationRepo) MarkRead(ctx context.Context, orgID, id uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true, read_at = NOW() WHERE organization_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Notification")
	}
	return nil
}
