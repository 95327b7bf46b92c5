package repository

import (
	"eduwithme_backend/internal/model"
	"eduwithme_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type RoomRepository struct {
	DB *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{DB: db}
}

func (r *RoomRepository) Create(room *model.Room) error {
	return r.DB.Create(room).Error
}

func (r *RoomRepository) FindByID(id uint) (*model.Room, error) {
	var room model.Room
	err := r.DB.First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) FindByRoomName(roomName string) (*model.Room, error) {
	var room model.Room
	err := r.DB.Where("room_name = ?", roomName).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) CountByManager(managerUserID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Room{}).Where("manager_user_id = ?", managerUserID).Count(&count).Error
	return count, err
}

func (r *RoomRepository) FindAllByManager(managerUserID uint) ([]model.Room, error) {
	var rooms []model.Room
	err := r.DB.Where("manager_user_id = ?", managerUserID).Find(&rooms).Error
	return rooms, err
}

// FindWithPagination 按创建时间倒序分页
func (r *RoomRepository) FindWithPagination(page, size int) ([]model.Room, int64, error) {
	var rooms []model.Room
	var total int64

	if err := r.DB.Model(&model.Room{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size
	err := r.DB.Order("created_at DESC").Offset(offset).Limit(size).Find(&rooms).Error
	return rooms, total, err
}

func (r *RoomRepository) Update(room *model.Room) error {
	return r.DB.Save(room).Error
}

// Delete 级联删除房间内的题目、答案、学习状态、评论和成员
func (r *RoomRepository) Delete(room *model.Room) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).
			Where("room_id = ?", room.ID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}

		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.LearningStatus{}).Error; err != nil {
				return err
			}
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("room_id = ?", room.ID).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("room_id = ?", room.ID).Delete(&model.Student{}).Error; err != nil {
			return err
		}
		return tx.Delete(room).Error
	})
}
