package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dataplatform/internal/model"
	"dataplatform/internal/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func taskRows() *sqlmock.Rows {
	name := "Jane Smith"
	return sqlmock.NewRows([]string{
		"task_id", "employee_id", "client_name", "project_name", "task_detail",
		"due_date", "status", "is_archived", "completed_at", "created_at", "employee_name",
	}).AddRow(
		uint(1), "EMP001", "Acme Corp", "Migration", "Move workloads to new cluster",
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), model.StatusPlan, false, nil,
		time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), name,
	)
}

func TestTaskRepository_List_DefaultFilter(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	// Запрос количества и запрос страницы используют один и тот же предикат
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" LEFT JOIN employees`).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT tasks\.\*, employees\.full_name AS employee_name FROM "tasks" LEFT JOIN employees`).
		WillReturnRows(taskRows())

	// Act
	rows, total, err := taskRepo.List(context.Background(), repository.TaskFilter{
		Archived: false,
		Page:     1,
		Limit:    10,
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, rows, 1)
	assert.Equal(t, uint(1), rows[0].TaskID)
	assert.Equal(t, "EMP001", rows[0].EmployeeID)
	assert.NotNil(t, rows[0].EmployeeName)
	assert.Equal(t, "Jane Smith", *rows[0].EmployeeName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_List_WithSearch(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	// Поиск добавляет группу OR по четырем колонкам после фильтра архива
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" LEFT JOIN employees .* ILIKE`).
		WithArgs(false, "%acme%", "%acme%", "%acme%", "%acme%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT tasks\.\*, employees\.full_name AS employee_name FROM "tasks" .* ILIKE`).
		WillReturnRows(taskRows())

	// Act
	_, total, err := taskRepo.List(context.Background(), repository.TaskFilter{
		Archived: false,
		Search:   "acme",
		Page:     1,
		Limit:    10,
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_List_AllFilters(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	employeeID := "EMP002"
	status := model.StatusOnProgress

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" LEFT JOIN employees`).
		WithArgs(true, employeeID, status).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT tasks\.\*, employees\.full_name AS employee_name FROM "tasks"`).
		WillReturnRows(taskRows().AddRow(
			uint(2), "EMP002", "Globex", "Rollout", "Site survey",
			time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), status, true, nil,
			time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), nil,
		))

	// Act
	rows, _, err := taskRepo.List(context.Background(), repository.TaskFilter{
		Archived:   true,
		EmployeeID: &employeeID,
		Status:     &status,
		Page:       2,
		Limit:      5,
	})

	// Assert
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Stats(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total,`).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"total", "plan", "in_progress", "completed", "overdue"}).
			AddRow(10, 4, 3, 3, 2))

	// Act
	stats, err := taskRepo.Stats(context.Background(), nil)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, int64(4), stats.Plan)
	assert.Equal(t, int64(3), stats.InProgress)
	assert.Equal(t, int64(3), stats.Completed)
	assert.Equal(t, int64(2), stats.Overdue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Stats_ByEmployee(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	employeeID := "EMP001"
	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total,`).
		WithArgs(false, employeeID).
		WillReturnRows(sqlmock.NewRows([]string{"total", "plan", "in_progress", "completed", "overdue"}).
			AddRow(3, 1, 1, 1, 0))

	// Act
	stats, err := taskRepo.Stats(context.Background(), &employeeID)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Create(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	task := &model.Task{
		EmployeeID:  "EMP001",
		ClientName:  "Acme Corp",
		ProjectName: "Migration",
		TaskDetail:  "Move workloads to new cluster",
		DueDate:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:      model.StatusPlan,
	}

	// Хранилище само присваивает идентификатор
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"task_id"}).AddRow(7))
	mock.ExpectCommit()

	// Act
	err := taskRepo.Create(context.Background(), task)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, uint(7), task.TaskID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Update_EntersCompleted(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	status := model.StatusCompleted

	// Один UPDATE: completed_at проставляется только при входе в Completed
	// и никогда не сбрасывается
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET .*CASE WHEN status <> .* THEN now\(\) ELSE completed_at END.*WHERE task_id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := taskRepo.Update(context.Background(), 7, model.TaskChanges{Status: &status})

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Update_NonCompletedStatusLeavesCompletedAt(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	status := model.StatusOnProgress

	// Выход из Completed не трогает completed_at
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET "status"=\$1 WHERE task_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := taskRepo.Update(context.Background(), 7, model.TaskChanges{Status: &status})

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Update_MissingTaskStillSucceeds(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	detail := "updated detail"

	// Ноль затронутых строк - не ошибка
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET "task_detail"=\$1 WHERE task_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := taskRepo.Update(context.Background(), 9999, model.TaskChanges{TaskDetail: &detail})

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_SetArchived(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET "is_archived"=\$1 WHERE task_id = \$2`).
		WithArgs(true, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := taskRepo.SetArchived(context.Background(), 7, true)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Delete_MissingTaskStillSucceeds(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tasks" WHERE task_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := taskRepo.Delete(context.Background(), 12345)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
