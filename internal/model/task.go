package model

import (
	"time"
)

// Статусы задач
const (
	StatusPlan       = "Plan"
	StatusOnProgress = "On Progress"
	StatusCompleted  = "Completed"
)

type Task struct {
	TaskID      uint       `gorm:"primaryKey;autoIncrement"`
	EmployeeID  string     `gorm:"not null;index"`
	ClientName  string     `gorm:"not null"`
	ProjectName string     `gorm:"not null"`
	TaskDetail  string     `gorm:"not null"`
	DueDate     time.Time  `gorm:"type:date;not null"`
	Status      string     `gorm:"not null;default:'Plan'"`
	IsArchived  bool       `gorm:"not null;default:false"`
	CompletedAt *time.Time
	CreatedAt   time.Time  `gorm:"autoCreateTime"`

	Employee Employee `gorm:"foreignKey:EmployeeID"`
}

// Overdue reports whether the task's due date lies strictly before today's
// date and the task is not completed. Derived, never stored.
func (t *Task) Overdue(now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return t.DueDate.Before(today) && t.Status != StatusCompleted
}

// TaskChanges is a partial update over the allow-listed task fields.
// Nil fields stay unmodified; fields outside this set cannot be changed
// through an update call at all.
type TaskChanges struct {
	EmployeeID  *string
	ClientName  *string
	ProjectName *string
	TaskDetail  *string
	DueDate     *time.Time
	Status      *string
}

// Columns renders the non-nil subset as a column map for a single UPDATE.
func (c TaskChanges) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if c.EmployeeID != nil {
		cols["employee_id"] = *c.EmployeeID
	}
	if c.ClientName != nil {
		cols["client_name"] = *c.ClientName
	}
	if c.ProjectName != nil {
		cols["project_name"] = *c.ProjectName
	}
	if c.TaskDetail != nil {
		cols["task_detail"] = *c.TaskDetail
	}
	if c.DueDate != nil {
		cols["due_date"] = *c.DueDate
	}
	if c.Status != nil {
		cols["status"] = *c.Status
	}
	return cols
}

// Empty reports whether the change set touches no allow-listed field.
func (c TaskChanges) Empty() bool {
	return c.EmployeeID == nil && c.ClientName == nil && c.ProjectName == nil &&
		c.TaskDetail == nil && c.DueDate == nil && c.Status == nil
}
