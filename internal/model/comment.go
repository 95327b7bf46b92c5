package model

// swagger:model Comment
type Comment struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	UserID     uint   `gorm:"index;not null" json:"userId"`
	Comment    string `gorm:"size:500;not null" json:"comment"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}
