package model

// swagger:model Room
type Room struct {
	BaseModel
	RoomName      string `gorm:"size:100;unique;not null" json:"roomName"`
	RoomPassword  string `gorm:"size:100" json:"-"` // 空字符串表示公开房间
	ManagerUserID uint   `gorm:"index;not null" json:"managerUserId"`

	Questions []Question `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Students  []Student  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Room) TableName() string {
	return "rooms"
}

// IsPrivate 是否为私有房间（设置了入场密码）
func (r *Room) IsPrivate() bool {
	return r.RoomPassword != ""
}

// Student 房间成员记录，一个用户在同一房间内只有一条
type Student struct {
	BaseModel
	RoomID uint `gorm:"uniqueIndex:idx_room_user;not null" json:"roomId"`
	UserID uint `gorm:"uniqueIndex:idx_room_user;not null" json:"userId"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}

func (Student) TableName() string {
	return "students"
}
