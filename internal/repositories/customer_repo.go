package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Customer, error)
	GetByEmail(ctx context.Context, orgID uuid.UUID, email string) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Customer, error)
	ListByZone(ctx context.Context, orgID, zoneID uuid.UUID, limit, offset int) ([]*models.Customer, error)
	Count(ctx context.Context, orgID uuid.UUID) (int, error)
}

type customerRepo struct {
	db DB
}

func NewCustomerRepo(db DB) CustomerRepository {
	return &customerRepo{db: db}
}

const customerColumns = `id, organization_id, zone_id, email, password_hash, first_name, last_name, phone, address, house_type, number_of_flats, number_of_occupants, monthly_fee, pickup_frequency, service_start_date, service_end_date, status, created_at, updated_at`

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, organization_id, zone_id, email, password_hash, first_name, last_name, phone, address, house_type, number_of_flats, number_of_occupants, monthly_fee, pickup_frequency, service_start_date, service_end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, customer.ID, customer.OrganizationID, customer.ZoneID, customer.Email, customer.PasswordHash, customer.FirstName, customer.LastName, customer.Phone, customer.Address, customer.HouseType, customer.NumberOfFlats, customer.NumberOfOccupants, customer.MonthlyFee, customer.PickupFrequency, customer.ServiceStartDate, customer.ServiceEndDate, customer.Status)
	return err
}

func (r *customerRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE organization_id = $1 AND id = $2`
	return r.scanOne(r.db.QueryRow(ctx, query, orgID, id))
}

func (r *customerRepo) GetByEmail(ctx context.Context, orgID uuid.UUID, email string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE organization_id = $1 AND email = $2`
	return r.scanOne(r.db.QueryRow(ctx, query, orgID, email))
}

func (r *customerRepo) scanOne(row pgx.Row) (*models.Customer, error) {
	customer := &models.Customer{}
	err := row.Scan(&customer.ID, &customer.OrganizationID, &customer.ZoneID, &customer.Email, &customer.PasswordHash, &customer.FirstName, &customer.LastName, &customer.Phone, &customer.Address, &customer.HouseType, &customer.NumberOfFlats, &customer.NumberOfOccupants, &customer.MonthlyFee, &customer.PickupFrequency, &customer.ServiceStartDate, &customer.ServiceEndDate, &customer.Status, &customer.CreatedAt, &customer.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("Customer")
	}
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *customerRepo) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET zone_id = $1, first_name = $2, last_name = $3, phone = $4, address = $5, house_type = $6, number_of_flats = $7, number_of_occupants = $8, monthly_fee = $9, pickup_frequency = $10, status = $11, updated_at = NOW()
		WHERE organization_id = $12 AND id = $13
	`
	_, err := r.db.Exec(ctx, query, customer.ZoneID, customer.FirstName, customer.LastName, customer.Phone, customer.Address, customer.HouseType, customer.NumberOfFlats, customer.NumberOfOccupants, customer.MonthlyFee, customer.PickupFrequency, customer.Status, customer.OrganizationID, customer.ID)
	return err
}

func (r *customerRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	query := `DELETE FROM customers WHERE organization_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, orgID, id)
	return err
}

func (r *customerRepo) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE organization_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, orgID, limit, offset)
}

func (r *customerRepo) ListByZone(ctx context.Context, orgID, zoneID uuid.UUID, limit, offset int) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE organization_id = $1 AND zone_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	return r.list(ctx, query, orgID, zoneID, limit, offset)
}

func (r *customerRepo) list(ctx context.Context, query string, args ...any) ([]*models.Customer, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer := &models.Customer{}
		if err := rows.Scan(&customer.ID, &customer.OrganizationID, &customer.ZoneID, &customer.Email, &customer.PasswordHash, &customer.FirstName, &customer.LastName, &customer.Phone, &customer.Address, &customer.HouseType, &customer.NumberOfFlats, &customer.NumberOfOccupants, &customer.MonthlyFee, &customer.PickupFrequency, &customer.ServiceStartDate, &customer.ServiceEndDate, &customer.Status, &customer.CreatedAt, &customer.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

func (r *customerRepo) Count(ctx context.Context, orgID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE organization_id = $1`, orgID).Scan(&count)
	return count, err
}
