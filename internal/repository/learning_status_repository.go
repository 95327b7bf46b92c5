package repository

import (
	"eduwithme_backend/internal/model"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LearningStatusRepository struct {
	DB *gorm.DB
}

func NewLearningStatusRepository(db *gorm.DB) *LearningStatusRepository {
	return &LearningStatusRepository{DB: db}
}

// FindByQuestionAndUser 不存在时返回 (nil, nil)
func (r *LearningStatusRepository) FindByQuestionAndUser(questionID, userID uint) (*model.LearningStatus, error) {
	var status model.LearningStatus
	err := r.DB.Where("question_id = ? AND user_id = ?", questionID, userID).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Save 新记录走 upsert，(question_id, user_id) 唯一索引兜底并发提交，
// 两个请求同时首次提交时只会留下一行。冲突动作按写入意图区分：
// 写 SOLVE 时更新已有行（覆盖并发先落库的 WRONG），
// 写 WRONG 时什么都不做——已有记录时答错是 no-op，SOLVE 不会被回退。
func (r *LearningStatusRepository) Save(status *model.LearningStatus) error {
	if status.ID == 0 {
		onConflict := clause.OnConflict{
			Columns: []clause.Column{{Name: "question_id"}, {Name: "user_id"}},
		}
		if status.QuestionType == model.QuestionSolve {
			onConflict.DoUpdates = clause.AssignmentColumns([]string{"question_type", "updated_at"})
		} else {
			onConflict.DoNothing = true
		}
		return r.DB.Clauses(onConflict).Create(status).Error
	}
	return r.DB.Save(status).Error
}

// FindSolvedUsers 返回已解出该题的用户，唯一索引保证每人至多出现一次
func (r *LearningStatusRepository) FindSolvedUsers(questionID uint) ([]model.User, error) {
	var users []model.User
	err := r.DB.Model(&model.User{}).
		Joins("JOIN learning_statuses ls ON ls.user_id = users.id").
		Where("ls.question_id = ? AND ls.question_type = ? AND ls.deleted_at IS NULL", questionID, model.QuestionSolve).
		Find(&users).Error
	return users, err
}

// TotalPointsByUserAndType 按当前状态聚合分值，而不是按提交次数
func (r *LearningStatusRepository) TotalPointsByUserAndType(userID uint, questionType model.QuestionType) (int64, error) {
	var total int64
	err := r.DB.Model(&model.LearningStatus{}).
		Select("COALESCE(SUM(questions.point), 0)").
		Joins("JOIN questions ON questions.id = learning_statuses.question_id").
		Where("learning_statuses.user_id = ? AND learning_statuses.question_type = ?", userID, questionType).
		Scan(&total).Error
	return total, err
}
