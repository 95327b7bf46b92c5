package service

import (
	"errors"
	"testing"
	"time"

	"eduwithme_backend/internal/model"
	"eduwithme_backend/internal/repository"
	"eduwithme_backend/internal/util"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newRoomTestService 内存 sqlite 上的 RoomService，建用户、房间、成员三张表
func newRoomTestService(t *testing.T) (*RoomService, *repository.UserRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}

	ddl := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME,
			email TEXT NOT NULL,
			password TEXT NOT NULL,
			nick_name TEXT NOT NULL,
			role TEXT DEFAULT 'student',
			photo_url TEXT DEFAULT '',
			ranking INTEGER DEFAULT 0,
			refresh_token TEXT DEFAULT '',
			last_login DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE rooms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME,
			room_name TEXT NOT NULL,
			room_password TEXT DEFAULT '',
			manager_user_id INTEGER NOT NULL
		)`,
		`CREATE TABLE students (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME,
			room_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_room_user ON students(room_id, user_id)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("建表失败: %v", err)
		}
	}

	userRepo := repository.NewUserRepository(db)
	svc := NewRoomService(
		repository.NewRoomRepository(db),
		repository.NewStudentRepository(db),
		userRepo,
		util.NewBadWordFilter(),
	)
	return svc, userRepo
}

func createRoomTestUser(t *testing.T, userRepo *repository.UserRepository, email, nickName, photoURL string) *model.User {
	t.Helper()
	user := &model.User{
		Email:     email,
		Password:  "hashed",
		NickName:  nickName,
		Role:      model.RoleStudent,
		PhotoURL:  photoURL,
		LastLogin: time.Now(),
	}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return user
}

// 入场响应要带上成员的昵称和头像，而不只有用户 ID
func TestEntryPublicRoomReturnsMemberProfile(t *testing.T) {
	svc, userRepo := newRoomTestService(t)

	manager := createRoomTestUser(t, userRepo, "m@eduwithme.com", "房主", "")
	member := createRoomTestUser(t, userRepo, "s@eduwithme.com", "同学甲", "https://cdn.example.com/p.png")

	room, err := svc.CreatePublicRoom(CreateRoomRequest{RoomName: "自习室A"}, manager.ID)
	if err != nil {
		t.Fatalf("创建房间失败: %v", err)
	}

	resp, err := svc.EntryPublicRoom(room.RoomID, member.ID)
	if err != nil {
		t.Fatalf("入场失败: %v", err)
	}
	if resp.UserID != member.ID {
		t.Fatalf("UserID = %d, 期望 %d", resp.UserID, member.ID)
	}
	if resp.NickName != "同学甲" {
		t.Fatalf("NickName = %q, 期望 同学甲", resp.NickName)
	}
	if resp.PhotoURL != "https://cdn.example.com/p.png" {
		t.Fatalf("PhotoURL = %q", resp.PhotoURL)
	}

	// 重复入场不产生第二条成员记录
	if _, err := svc.EntryPublicRoom(room.RoomID, member.ID); err != nil {
		t.Fatalf("重复入场失败: %v", err)
	}
	users, err := svc.GetRoomUsers(room.RoomID)
	if err != nil {
		t.Fatalf("查询成员失败: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("成员数 = %d, 期望 2（房主 + 同学甲）", len(users))
	}
}

func TestEntryPrivateRoomPasswordCheck(t *testing.T) {
	svc, userRepo := newRoomTestService(t)

	manager := createRoomTestUser(t, userRepo, "m@eduwithme.com", "房主", "")
	member := createRoomTestUser(t, userRepo, "s@eduwithme.com", "同学乙", "")

	room, err := svc.CreatePrivateRoom(CreateRoomRequest{RoomName: "私密自习室", RoomPassword: "secret"}, manager.ID)
	if err != nil {
		t.Fatalf("创建私有房间失败: %v", err)
	}

	if _, err := svc.EntryPrivateRoom(room.RoomID, member.ID, "wrong"); !errors.Is(err, util.ErrRoomPasswordWrong) {
		t.Fatalf("错误密码: err = %v, 期望 ErrRoomPasswordWrong", err)
	}

	resp, err := svc.EntryPrivateRoom(room.RoomID, member.ID, "secret")
	if err != nil {
		t.Fatalf("入场失败: %v", err)
	}
	if resp.NickName != "同学乙" {
		t.Fatalf("NickName = %q, 期望 同学乙", resp.NickName)
	}
}

func TestEntryPublicRoomRejectsPrivateRoom(t *testing.T) {
	svc, userRepo := newRoomTestService(t)

	manager := createRoomTestUser(t, userRepo, "m@eduwithme.com", "房主", "")
	member := createRoomTestUser(t, userRepo, "s@eduwithme.com", "同学丙", "")

	room, err := svc.CreatePrivateRoom(CreateRoomRequest{RoomName: "私密自习室", RoomPassword: "secret"}, manager.ID)
	if err != nil {
		t.Fatalf("创建私有房间失败: %v", err)
	}

	if _, err := svc.EntryPublicRoom(room.RoomID, member.ID); !errors.Is(err, util.ErrRoomPasswordWrong) {
		t.Fatalf("err = %v, 期望 ErrRoomPasswordWrong", err)
	}
}
