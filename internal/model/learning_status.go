package model

// QuestionType 用户对某题的当前学习状态
type QuestionType string

const (
	QuestionSolve QuestionType = "SOLVE"
	QuestionWrong QuestionType = "WRONG"
)

// LearningStatus 每个 (question, user) 至多一条记录。
// 状态只会从 WRONG 迁移到 SOLVE，SOLVE 是终态。
type LearningStatus struct {
	BaseModel
	QuestionID   uint         `gorm:"uniqueIndex:idx_question_user;not null" json:"questionId"`
	UserID       uint         `gorm:"uniqueIndex:idx_question_user;not null" json:"userId"`
	QuestionType QuestionType `gorm:"size:20;not null" json:"questionType"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (LearningStatus) TableName() string {
	return "learning_statuses"
}
