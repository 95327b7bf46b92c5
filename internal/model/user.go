package model

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

// swagger:model User
type User struct {
	BaseModel
	Email        string    `gorm:"size:100;unique;not null" json:"email"`
	Password     string    `gorm:"size:100;not null" json:"-"`
	NickName     string    `gorm:"size:100;not null" json:"nickName"`
	Role         UserRole  `gorm:"type:enum('student','teacher');default:'student'" json:"role"`
	PhotoURL     string    `gorm:"size:255" json:"photoUrl"`
	Ranking      int64     `gorm:"default:0" json:"ranking"`
	RefreshToken string    `gorm:"size:512" json:"-"`
	LastLogin    time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
