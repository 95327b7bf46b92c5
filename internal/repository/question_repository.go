package repository

import (
	"database/sql"
	"eduwithme_backend/internal/model"
	"eduwithme_backend/internal/util"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// CreateInRoom 在一个事务内分配 order_in_room 并写入题目及其答案。
// 先对房间行加排他锁，保证并发创建时 order 不重复；
// MAX 用 Unscoped 计算，已删除题目的序号不会被复用。
func (r *QuestionRepository) CreateInRoom(question *model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var room model.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&room, question.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrRoomNotFound
			}
			return err
		}

		var maxOrder sql.NullInt64
		if err := tx.Unscoped().Model(&model.Question{}).
			Where("room_id = ?", question.RoomID).
			Select("MAX(order_in_room)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}

		question.OrderInRoom = maxOrder.Int64 + 1
		return tx.Create(question).Error
	})
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.Preload("Answer").First(&question, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// FindAllByRoom 房间内按 id 升序分页查询
func (r *QuestionRepository) FindAllByRoom(roomID uint, page, size int) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64

	err := r.DB.Model(&model.Question{}).Where("room_id = ?", roomID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size
	err = r.DB.Where("room_id = ?", roomID).
		Order("id ASC").
		Offset(offset).Limit(size).
		Find(&questions).Error

	return questions, total, err
}

// SearchByTitle 房间内标题模糊搜索（不区分大小写），按 updated_at 升序
func (r *QuestionRepository) SearchByTitle(roomID uint, keyword string, page, size int) ([]model.Question, error) {
	var questions []model.Question
	pattern := "%" + strings.ToLower(keyword) + "%"

	offset := (page - 1) * size
	err := r.DB.Where("room_id = ? AND LOWER(title) LIKE ?", roomID, pattern).
		Order("updated_at ASC").
		Offset(offset).Limit(size).
		Find(&questions).Error

	return questions, err
}

// Update 题目与答案在同一事务内保存，任何一步失败都不落库
func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(question).Error; err != nil {
			return err
		}
		if question.Answer != nil {
			return tx.Save(question.Answer).Error
		}
		return nil
	})
}

// Delete 级联删除答案、学习状态和评论
func (r *QuestionRepository) Delete(question *model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&model.LearningStatus{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(question).Error
	})
}
