package repository

import (
	"eduwithme_backend/internal/model"
	"eduwithme_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

// CommentRoomRow 用户评论列表的联查结果，带房间名和题目序号
type CommentRoomRow struct {
	ID          uint      `json:"commentId"`
	NickName    string    `json:"nickName"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	RoomName    string    `json:"roomName"`
	OrderInRoom int64     `json:"orderInRoom"`
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.DB.Create(comment).Error
}

func (r *CommentRepository) FindByID(id uint) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepository) FindAllByQuestion(questionID uint, page, size int) ([]model.Comment, int64, error) {
	var comments []model.Comment
	var total int64

	err := r.DB.Model(&model.Comment{}).Where("question_id = ?", questionID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size
	err = r.DB.Preload("User").
		Where("question_id = ?", questionID).
		Order("created_at DESC").
		Offset(offset).Limit(size).
		Find(&comments).Error

	return comments, total, err
}

// FindByUserWithContext 某用户的全部评论，联查房间名与题目序号
func (r *CommentRepository) FindByUserWithContext(userID uint, page, size int) ([]CommentRoomRow, int64, error) {
	var rows []CommentRoomRow
	var total int64

	base := r.DB.Model(&model.Comment{}).
		Joins("JOIN questions ON questions.id = comments.question_id").
		Joins("JOIN rooms ON rooms.id = questions.room_id").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.user_id = ?", userID)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size
	err := base.
		Select("comments.id, users.nick_name, comments.comment, comments.created_at, comments.updated_at, rooms.room_name, questions.order_in_room").
		Order("comments.created_at DESC").
		Offset(offset).Limit(size).
		Scan(&rows).Error

	return rows, total, err
}

func (r *CommentRepository) Update(comment *model.Comment) error {
	return r.DB.Save(comment).Error
}

func (r *CommentRepository) Delete(comment *model.Comment) error {
	return r.DB.Delete(comment).Error
}

func (r *CommentRepository) DeleteAllByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.Comment{}).Error
}
