package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dataplatform/internal/middleware"
	"dataplatform/internal/model"
	"dataplatform/internal/repository"
)

// dueDateLayout — формат дат в запросах и ответах API
const dueDateLayout = "2006-01-02"

// TaskStore is the repository surface the task handlers depend on.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	List(ctx context.Context, f repository.TaskFilter) ([]repository.TaskWithEmployee, int64, error)
	Stats(ctx context.Context, employeeID *string) (repository.TaskStats, error)
	Update(ctx context.Context, taskID uint, changes model.TaskChanges) error
	SetArchived(ctx context.Context, taskID uint, archived bool) error
	Delete(ctx context.Context, taskID uint) error
}

type TaskHandler struct {
	taskRepo TaskStore
}

func NewTaskHandler(taskRepo TaskStore) *TaskHandler {
	return &TaskHandler{taskRepo: taskRepo}
}

// TaskCreateRequest представляет запрос на создание задачи
type TaskCreateRequest struct {
	EmployeeID  string `json:"employee_id"`
	ClientName  string `json:"client_name"`
	ProjectName string `json:"project_name"`
	TaskDetail  string `json:"task_detail"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
}

// TaskUpdateRequest представляет частичное обновление задачи; поля вне
// allow-list игнорируются
type TaskUpdateRequest struct {
	EmployeeID  *string `json:"employee_id"`
	ClientName  *string `json:"client_name"`
	ProjectName *string `json:"project_name"`
	TaskDetail  *string `json:"task_detail"`
	DueDate     *string `json:"due_date"`
	Status      *string `json:"status"`
}

// TaskResponse представляет ответ с данными задачи
type TaskResponse struct {
	TaskID       uint    `json:"task_id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	ClientName   string  `json:"client_name"`
	ProjectName  string  `json:"project_name"`
	TaskDetail   string  `json:"task_detail"`
	DueDate      string  `json:"due_date"`
	Status       string  `json:"status"`
	IsArchived   bool    `json:"is_archived"`
	Overdue      bool    `json:"overdue"`
	CompletedAt  *string `json:"completed_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// Pagination описывает страницу результатов списка
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func newTaskResponse(row repository.TaskWithEmployee, now time.Time) TaskResponse {
	resp := TaskResponse{
		TaskID:       row.TaskID,
		EmployeeID:   row.EmployeeID,
		EmployeeName: row.EmployeeName,
		ClientName:   row.ClientName,
		ProjectName:  row.ProjectName,
		TaskDetail:   row.TaskDetail,
		DueDate:      row.DueDate.Format(dueDateLayout),
		Status:       row.Status,
		IsArchived:   row.IsArchived,
		Overdue:      row.Task.Overdue(now),
		CreatedAt:    row.CreatedAt.Format(time.RFC3339),
	}
	if row.CompletedAt != nil {
		completedAt := row.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completedAt
	}
	return resp
}

// intQuery reads a numeric query parameter, falling back to a safe default on
// anything non-numeric.
func intQuery(c *gin.Context, key string, defaultVal int) int {
	value := c.Query(key)
	if value == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultVal
	}
	return n
}

// List возвращает страницу задач с фильтрами и поиском
func (h *TaskHandler) List(c *gin.Context) {
	filter := repository.TaskFilter{
		Archived: c.DefaultQuery("archived", "false") == "true",
		Search:   c.Query("search"),
		Page:     intQuery(c, "page", 1),
		Limit:    intQuery(c, "limit", 10),
	}
	if v := c.Query("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	rows, total, err := h.taskRepo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	now := time.Now()
	data := make([]TaskResponse, len(rows))
	for i, row := range rows {
		data[i] = newTaskResponse(row, now)
	}

	var totalPages int64
	if total > 0 {
		totalPages = (total + int64(filter.Limit) - 1) / int64(filter.Limit)
	}

	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"pagination": Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// Stats возвращает агрегированную статистику по неархивным задачам
func (h *TaskHandler) Stats(c *gin.Context) {
	var employeeID *string
	if v := c.Query("employee_id"); v != "" {
		employeeID = &v
	}

	stats, err := h.taskRepo.Stats(c.Request.Context(), employeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Create создает новую задачу
func (h *TaskHandler) Create(c *gin.Context) {
	if _, ok := middleware.CallerFrom(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Собираем все отсутствующие поля, а не только первое
	var missing []string
	if req.EmployeeID == "" {
		missing = append(missing, "employee_id")
	}
	if req.ClientName == "" {
		missing = append(missing, "client_name")
	}
	if req.ProjectName == "" {
		missing = append(missing, "project_name")
	}
	if req.TaskDetail == "" {
		missing = append(missing, "task_detail")
	}
	if req.DueDate == "" {
		missing = append(missing, "due_date")
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing required fields",
			"missing": missing,
		})
		return
	}

	dueDate, err := time.Parse(dueDateLayout, req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date format, expected YYYY-MM-DD"})
		return
	}

	status := req.Status
	if status == "" {
		status = model.StatusPlan
	}

	task := &model.Task{
		EmployeeID:  req.EmployeeID,
		ClientName:  req.ClientName,
		ProjectName: req.ProjectName,
		TaskDetail:  req.TaskDetail,
		DueDate:     dueDate,
		Status:      status,
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task_id": task.TaskID,
	})
}

// Update применяет частичное обновление задачи
func (h *TaskHandler) Update(c *gin.Context) {
	if _, ok := middleware.CallerFrom(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := parseTaskID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	changes := model.TaskChanges{
		EmployeeID:  req.EmployeeID,
		ClientName:  req.ClientName,
		ProjectName: req.ProjectName,
		TaskDetail:  req.TaskDetail,
		Status:      req.Status,
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse(dueDateLayout, *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date format, expected YYYY-MM-DD"})
			return
		}
		changes.DueDate = &dueDate
	}

	if changes.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := h.taskRepo.Update(c.Request.Context(), taskID, changes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully"})
}

// Archive скрывает задачу из списков по умолчанию, не меняя её статус
func (h *TaskHandler) Archive(c *gin.Context) {
	h.setArchived(c, true, "Task archived successfully", "Failed to archive task")
}

// Unarchive возвращает задачу в активные списки
func (h *TaskHandler) Unarchive(c *gin.Context) {
	h.setArchived(c, false, "Task unarchived successfully", "Failed to unarchive task")
}

func (h *TaskHandler) setArchived(c *gin.Context, archived bool, okMsg, failMsg string) {
	if _, ok := middleware.CallerFrom(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := parseTaskID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if err := h.taskRepo.SetArchived(c.Request.Context(), taskID, archived); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": okMsg})
}

// Delete безусловно удаляет задачу; удаление несуществующего ID тоже успех
func (h *TaskHandler) Delete(c *gin.Context) {
	if _, ok := middleware.CallerFrom(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := parseTaskID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), taskID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func parseTaskID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
