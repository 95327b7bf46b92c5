package repository

import (
	"eduwithme_backend/internal/model"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

// FindByRoomAndUser 不存在时返回 (nil, nil)
func (r *StudentRepository) FindByRoomAndUser(roomID, userID uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.Where("room_id = ? AND user_id = ?", roomID, userID).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Create (room_id, user_id) 唯一索引，重复入场不产生第二条记录
func (r *StudentRepository) Create(student *model.Student) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(student).Error
}

func (r *StudentRepository) FindByRoomWithUser(roomID uint) ([]model.Student, error) {
	var students []model.Student
	err := r.DB.Preload("User").Where("room_id = ?", roomID).Find(&students).Error
	return students, err
}

// FindRoomsByUser 返回用户加入过的所有房间
func (r *StudentRepository) FindRoomsByUser(userID uint) ([]model.Room, error) {
	var rooms []model.Room
	err := r.DB.Model(&model.Room{}).
		Joins("JOIN students ON students.room_id = rooms.id").
		Where("students.user_id = ? AND students.deleted_at IS NULL", userID).
		Find(&rooms).Error
	return rooms, err
}

func (r *StudentRepository) DeleteAllByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.Student{}).Error
}
