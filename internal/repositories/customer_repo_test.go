package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"wasteflow/internal/common"
	"wasteflow/internal/models"
)

type CustomerRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    CustomerRepository
	orgID1  uuid.UUID
	orgID2  uuid.UUID
	context context.Context
}

func (suite *CustomerRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewCustomerRepo(mock)
	suite.orgID1 = uuid.New()
	suite.orgID2 = uuid.New()
	suite.context = context.Background()
}

func (suite *CustomerRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func (suite *CustomerRepoTestSuite) customerRow(customer *models.Customer) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "organization_id", "zone_id", "email", "password_hash", "first_name", "last_name",
		"phone", "address", "house_type", "number_of_flats", "number_of_occupants", "monthly_fee",
		"pickup_frequency", "service_start_date", "service_end_date", "status", "created_at", "updated_at",
	}).AddRow(
		customer.ID, customer.OrganizationID, customer.ZoneID, customer.Email, customer.PasswordHash,
		customer.FirstName, customer.LastName, customer.Phone, customer.Address, customer.HouseType,
		customer.NumberOfFlats, customer.NumberOfOccupants, customer.MonthlyFee, customer.PickupFrequency,
		customer.ServiceStartDate, customer.ServiceEndDate, customer.Status, customer.CreatedAt, customer.UpdatedAt,
	)
}

func (suite *CustomerRepoTestSuite) TestCreate_Success() {
	now := time.Now().UTC()
	customer := &models.Customer{
		ID:               uuid.New(),
		OrganizationID:   suite.orgID1,
		Email:            "jane@example.com",
		FirstName:        "Jane",
		LastName:         "Doe",
		MonthlyFee:       30,
		PickupFrequency:  "weekly",
		ServiceStartDate: &now,
		Status:           "active",
	}

	suite.mock.ExpectExec(`INSERT INTO customers`).
		WithArgs(customer.ID, customer.OrganizationID, customer.ZoneID, customer.Email,
			customer.PasswordHash, customer.FirstName, customer.LastName, customer.Phone,
			customer.Address, customer.HouseType, customer.NumberOfFlats, customer.NumberOfOccupants,
			customer.MonthlyFee, customer.PickupFrequency, customer.ServiceStartDate,
			customer.ServiceEndDate, customer.Status).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, customer)

	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CustomerRepoTestSuite) TestGetByID_ScopedToOrganization() {
	customerID := uuid.New()
	customer := &models.Customer{
		ID:             customerID,
		OrganizationID: suite.orgID1,
		Email:          "jane@example.com",
		FirstName:      "Jane",
		LastName:       "Doe",
		Status:         "active",
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	suite.mock.ExpectQuery(`SELECT .+ FROM customers WHERE organization_id = \$1 AND id = \$2`).
		WithArgs(suite.orgID1, customerID).
		WillReturnRows(suite.customerRow(customer))

	found, err := suite.repo.GetByID(suite.context, suite.orgID1, customerID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), customerID, found.ID)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CustomerRepoTestSuite) TestGetByID_OtherOrganizationIsNotFound() {
	customerID := uuid.New()

	// The row exists under orgID1, but the query is scoped to orgID2 and
	// matches nothing.
	suite.mock.ExpectQuery(`SELECT .+ FROM customers WHERE organization_id = \$1 AND id = \$2`).
		WithArgs(suite.orgID2, customerID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := suite.repo.GetByID(suite.context, suite.orgID2, customerID)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsKind(err, common.KindNotFound))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CustomerRepoTestSuite) TestGetByEmail_NotFound() {
	suite.mock.ExpectQuery(`SELECT .+ FROM customers WHERE organization_id = \$1 AND email = \$2`).
		WithArgs(suite.orgID1, "nobody@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := suite.repo.GetByEmail(suite.context, suite.orgID1, "nobody@example.com")

	assert.True(suite.T(), common.IsKind(err, common.KindNotFound))
}

func (suite *CustomerRepoTestSuite) TestDelete_ScopedToOrganization() {
	customerID := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM customers WHERE organization_id = \$1 AND id = \$2`).
		WithArgs(suite.orgID1, customerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, suite.orgID1, customerID)

	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CustomerRepoTestSuite) TestCount_Scoped() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM customers WHERE organization_id = \$1`).
		WithArgs(suite.orgID1).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	count, err := suite.repo.Count(suite.context, suite.orgID1)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 7, count)
}

func TestCustomerRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CustomerRepoTestSuite))
}
