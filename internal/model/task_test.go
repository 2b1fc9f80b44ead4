package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dataplatform/internal/model"
)

func TestTask_Overdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	// Срок истек вчера, задача не завершена - просрочена
	yesterday := model.Task{DueDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), Status: model.StatusOnProgress}
	assert.True(t, yesterday.Overdue(now))

	// Срок сегодня - еще не просрочена
	today := model.Task{DueDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), Status: model.StatusPlan}
	assert.False(t, today.Overdue(now))

	// Срок завтра - не просрочена
	tomorrow := model.Task{DueDate: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), Status: model.StatusPlan}
	assert.False(t, tomorrow.Overdue(now))

	// Завершенная задача не бывает просроченной
	completed := model.Task{DueDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Status: model.StatusCompleted}
	assert.False(t, completed.Overdue(now))
}

func TestTaskChanges_Columns(t *testing.T) {
	status := model.StatusOnProgress
	detail := "prepare quarterly report"
	changes := model.TaskChanges{Status: &status, TaskDetail: &detail}

	cols := changes.Columns()

	assert.Len(t, cols, 2)
	assert.Equal(t, model.StatusOnProgress, cols["status"])
	assert.Equal(t, detail, cols["task_detail"])
	assert.False(t, changes.Empty())
}

func TestTaskChanges_Empty(t *testing.T) {
	changes := model.TaskChanges{}

	assert.True(t, changes.Empty())
	assert.Len(t, changes.Columns(), 0)
}
