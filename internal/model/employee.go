package model

import (
	"time"
)

type Employee struct {
	EmployeeID string `gorm:"primaryKey"`
	FullName   string `gorm:"not null"`
	Email      string `gorm:"uniqueIndex;not null"`
	Position   string
	Department string
	JoinDate   *time.Time `gorm:"type:date"`
	Status     string     `gorm:"not null;default:'active'"`
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
}
