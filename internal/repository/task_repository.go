package repository

import (
	"context"

	"gorm.io/gorm"

	"dataplatform/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// taskCondition is one predicate fragment with its bind arguments. The
// listing and count queries are rendered from the same fragment list, so the
// reported total always matches the listed population.
type taskCondition struct {
	expr string
	args []interface{}
}

// TaskFilter describes the listing predicate and page window.
type TaskFilter struct {
	Archived   bool
	EmployeeID *string
	Status     *string
	Search     string
	Page       int
	Limit      int
}

func (f TaskFilter) conditions() []taskCondition {
	conds := []taskCondition{
		{expr: "tasks.is_archived = ?", args: []interface{}{f.Archived}},
	}
	if f.EmployeeID != nil {
		conds = append(conds, taskCondition{
			expr: "tasks.employee_id = ?",
			args: []interface{}{*f.EmployeeID},
		})
	}
	if f.Status != nil {
		// Unknown status values pass through unchanged; filtering stays permissive.
		conds = append(conds, taskCondition{
			expr: "tasks.status = ?",
			args: []interface{}{*f.Status},
		})
	}
	if f.Search != "" {
		term := "%" + f.Search + "%"
		conds = append(conds, taskCondition{
			expr: "(tasks.client_name ILIKE ? OR tasks.project_name ILIKE ? OR tasks.task_detail ILIKE ? OR employees.full_name ILIKE ?)",
			args: []interface{}{term, term, term, term},
		})
	}
	return conds
}

// TaskWithEmployee is a listing row joined with the assignee's display name.
type TaskWithEmployee struct {
	model.Task
	EmployeeName *string
}

// TaskStats are aggregate counts over non-archived tasks.
type TaskStats struct {
	Total      int64 `json:"total"`
	Plan       int64 `json:"plan"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Overdue    int64 `json:"overdue"`
}

// Create adds a new task; the store assigns the task id.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// List returns one page of tasks plus the total row count for the identical
// predicate. The two reads are not wrapped in a transaction; under concurrent
// writes the count and the page can observe different snapshots.
func (r *TaskRepository) List(ctx context.Context, f TaskFilter) ([]TaskWithEmployee, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Task{}).
		Joins("LEFT JOIN employees ON employees.employee_id = tasks.employee_id")
	for _, cond := range f.conditions() {
		base = base.Where(cond.expr, cond.args...)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []TaskWithEmployee
	err := base.Session(&gorm.Session{}).
		Select("tasks.*, employees.full_name AS employee_name").
		Order("tasks.due_date ASC, tasks.created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Stats aggregates counts over non-archived tasks, optionally restricted to
// one assignee. The population matches List with no other filters applied.
func (r *TaskRepository) Stats(ctx context.Context, employeeID *string) (TaskStats, error) {
	var stats TaskStats
	q := r.db.WithContext(ctx).Model(&model.Task{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = 'Plan' THEN 1 ELSE 0 END), 0) AS plan,
			COALESCE(SUM(CASE WHEN status = 'On Progress' THEN 1 ELSE 0 END), 0) AS in_progress,
			COALESCE(SUM(CASE WHEN status = 'Completed' THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN due_date < CURRENT_DATE AND status != 'Completed' THEN 1 ELSE 0 END), 0) AS overdue`).
		Where("is_archived = ?", false)
	if employeeID != nil {
		q = q.Where("employee_id = ?", *employeeID)
	}
	err := q.Scan(&stats).Error
	return stats, err
}

// Update applies a partial change set in a single UPDATE statement. A missing
// task id is not an error: zero affected rows still reports success.
func (r *TaskRepository) Update(ctx context.Context, taskID uint, changes model.TaskChanges) error {
	cols := changes.Columns()
	if len(cols) == 0 {
		return nil
	}
	if status, ok := cols["status"]; ok && status == model.StatusCompleted {
		// completed_at is stamped once on entering Completed and never cleared.
		cols["completed_at"] = gorm.Expr("CASE WHEN status <> ? THEN now() ELSE completed_at END", model.StatusCompleted)
	}
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("task_id = ?", taskID).
		Updates(cols).Error
}

// SetArchived flips the archive flag without touching status or completed_at.
// Idempotent: re-archiving an archived task succeeds.
func (r *TaskRepository) SetArchived(ctx context.Context, taskID uint, archived bool) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("task_id = ?", taskID).
		Update("is_archived", archived).Error
}

// Delete removes a task unconditionally. Deleting a missing id succeeds.
func (r *TaskRepository) Delete(ctx context.Context, taskID uint) error {
	return r.db.WithContext(ctx).Delete(&model.Task{}, "task_id = ?", taskID).Error
}
