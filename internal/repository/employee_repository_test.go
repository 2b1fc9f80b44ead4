package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"dataplatform/internal/repository"
)

func TestEmployeeRepository_GetAll(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	employeeRepo := repository.NewEmployeeRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "employees" ORDER BY full_name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{
			"employee_id", "full_name", "email", "position", "department", "join_date", "status", "created_at",
		}).
			AddRow("EMP001", "Jane Smith", "jane@dataplatform.com", "Engineer", "Infrastructure", nil, "active", time.Now()).
			AddRow("EMP002", "John Doe", "john@dataplatform.com", "Analyst", "Data", nil, "active", time.Now()))

	// Act
	employees, err := employeeRepo.GetAll(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Len(t, employees, 2)
	assert.Equal(t, "Jane Smith", employees[0].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_GetByID_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	employeeRepo := repository.NewEmployeeRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "employees" WHERE employee_id = \$1`).
		WithArgs("EMP404", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	employee, err := employeeRepo.GetByID(context.Background(), "EMP404")

	// Assert
	assert.ErrorIs(t, err, repository.ErrEmployeeNotFound)
	assert.Nil(t, employee)
	assert.NoError(t, mock.ExpectationsWereMet())
}
