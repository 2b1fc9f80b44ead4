package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dataplatform/internal/middleware"
	"dataplatform/internal/model"
	"dataplatform/internal/repository"
)

// EmployeeStore is the repository surface the employee handlers depend on.
type EmployeeStore interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetAll(ctx context.Context) ([]model.Employee, error)
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id string) error
}

type EmployeeHandler struct {
	employeeRepo EmployeeStore
}

func NewEmployeeHandler(employeeRepo EmployeeStore) *EmployeeHandler {
	return &EmployeeHandler{employeeRepo: employeeRepo}
}

// EmployeeRequest представляет запрос на создание сотрудника
type EmployeeRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Position   string `json:"position"`
	Department string `json:"department"`
	JoinDate   string `json:"join_date"`
	Status     string `json:"status"`
}

// EmployeeUpdateRequest представляет запрос на обновление сотрудника
type EmployeeUpdateRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Position   string `json:"position"`
	Department string `json:"department"`
	JoinDate   string `json:"join_date"`
	Status     string `json:"status"`
}

// EmployeeResponse представляет ответ с данными сотрудника
type EmployeeResponse struct {
	EmployeeID string  `json:"employee_id"`
	FullName   string  `json:"full_name"`
	Email      string  `json:"email"`
	Position   string  `json:"position"`
	Department string  `json:"department"`
	JoinDate   *string `json:"join_date,omitempty"`
	Status     string  `json:"status"`
}

func newEmployeeResponse(e model.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		EmployeeID: e.EmployeeID,
		FullName:   e.FullName,
		Email:      e.Email,
		Position:   e.Position,
		Department: e.Department,
		Status:     e.Status,
	}
	if e.JoinDate != nil {
		joinDate := e.JoinDate.Format(dueDateLayout)
		resp.JoinDate = &joinDate
	}
	return resp
}

// GetAll возвращает всех сотрудников по алфавиту
func (h *EmployeeHandler) GetAll(c *gin.Context) {
	employees, err := h.employeeRepo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employees"})
		return
	}

	response := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		response[i] = newEmployeeResponse(e)
	}

	c.JSON(http.StatusOK, response)
}

// GetByID возвращает сотрудника по идентификатору
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	employee, err := h.employeeRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employee"})
		}
		return
	}

	c.JSON(http.StatusOK, newEmployeeResponse(*employee))
}

// Create создает нового сотрудника
func (h *EmployeeHandler) Create(c *gin.Context) {
	if _, ok := middleware.CallerFrom(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	employee := &model.Employee{
		EmployeeID: req.EmployeeID,
		FullName:   req.FullName,
		Email:      req.Email,
		Position:   req.Position,
		Department: req.Department,
		Status:     req.Status,
	}
	if employee.Status == "" {
		employee.Status = "active"
	}
	if req.JoinDate != "" {
		joinDate, err := time.Parse(dueDateLayout, req.JoinDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid join_date format, expected YYYY-MM-DD"})
			return
		}
		employee.JoinDate = &joinDate
	}

	if err := h.employeeRepo.Create(c.Request.Context(), employee); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Employee created successfully",
		"employee_id": employee.EmployeeID,
	})
}

// Update обновляет данные сотрудника
func (h *EmployeeHandler) Update(c *gin.Context) {
	if _, ok := middleware.CallerFrom(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	employee, err := h.employeeRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employee"})
		}
		return
	}

	var req EmployeeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	employee.FullName = req.FullName
	employee.Email = req.Email
	employee.Position = req.Position
	employee.Department = req.Department
	if req.Status != "" {
		employee.Status = req.Status
	}
	if req.JoinDate != "" {
		joinDate, err := time.Parse(dueDateLayout, req.JoinDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid join_date format, expected YYYY-MM-DD"})
			return
		}
		employee.JoinDate = &joinDate
	}

	if err := h.employeeRepo.Update(c.Request.Context(), employee); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update employee"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee updated successfully"})
}

// Delete удаляет сотрудника
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if _, ok := middleware.CallerFrom(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if err := h.employeeRepo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete employee"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}
