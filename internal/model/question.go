package model

// Category 题目分类
type Category string

const (
	CategoryMath    Category = "MATH"
	CategoryScience Category = "SCIENCE"
	CategoryEnglish Category = "ENGLISH"
	CategoryHistory Category = "HISTORY"
	CategoryCoding  Category = "CODING"
	CategoryGeneral Category = "GENERAL"
)

// DisplayName 分类的展示名称
func (c Category) DisplayName() string {
	switch c {
	case CategoryMath:
		return "Math"
	case CategoryScience:
		return "Science"
	case CategoryEnglish:
		return "English"
	case CategoryHistory:
		return "History"
	case CategoryCoding:
		return "Coding"
	case CategoryGeneral:
		return "General"
	default:
		return string(c)
	}
}

// Difficulty 题目难度，五个等级，分值由等级唯一决定
type Difficulty string

const (
	LevelOne   Difficulty = "LEVEL_ONE"
	LevelTwo   Difficulty = "LEVEL_TWO"
	LevelThree Difficulty = "LEVEL_THREE"
	LevelFour  Difficulty = "LEVEL_FOUR"
	LevelFive  Difficulty = "LEVEL_FIVE"
)

// swagger:model Question
type Question struct {
	BaseModel
	RoomID      uint       `gorm:"uniqueIndex:idx_room_order;index;not null" json:"roomId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Category    Category   `gorm:"size:50;not null" json:"category"`
	Difficulty  Difficulty `gorm:"size:50;not null" json:"difficulty"`
	Point       int64      `gorm:"not null" json:"point"`
	OrderInRoom int64      `gorm:"uniqueIndex:idx_room_order;not null" json:"orderInRoom"`

	// 1:1 答案，随题目一起创建、一起删除
	Answer *Answer `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

// Answer 四选一答案，Answered 为正确选项序号(1..4)
type Answer struct {
	BaseModel
	QuestionID uint   `gorm:"uniqueIndex;not null" json:"questionId"`
	First      string `gorm:"size:255;not null" json:"first"`
	Second     string `gorm:"size:255;not null" json:"second"`
	Third      string `gorm:"size:255;not null" json:"third"`
	Fourth     string `gorm:"size:255;not null" json:"fourth"`
	Answered   int    `gorm:"not null" json:"answered"`
}

func (Answer) TableName() string {
	return "answers"
}

// Choices 按序号返回四个选项
func (a *Answer) Choices() []string {
	return []string{a.First, a.Second, a.Third, a.Fourth}
}
