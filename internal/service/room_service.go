package service

import (
	"eduwithme_backend/internal/model"
	"eduwithme_backend/internal/repository"
	"eduwithme_backend/internal/util"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// 每个用户最多可管理的房间数
const maxRoomsPerManager = 2

type RoomService struct {
	RoomRepo    *repository.RoomRepository
	StudentRepo *repository.StudentRepository
	UserRepo    *repository.UserRepository
	Filter      ProfanityFilter
}

func NewRoomService(roomRepo *repository.RoomRepository, studentRepo *repository.StudentRepository, userRepo *repository.UserRepository, filter ProfanityFilter) *RoomService {
	return &RoomService{
		RoomRepo:    roomRepo,
		StudentRepo: studentRepo,
		UserRepo:    userRepo,
		Filter:      filter,
	}
}

type CreateRoomRequest struct {
	RoomName     string `json:"roomName" binding:"required,max=100"`
	RoomPassword string `json:"roomPassword"` // private 房间必填
}

type RoomResponse struct {
	RoomID        uint      `json:"roomId"`
	RoomName      string    `json:"roomName"`
	IsPrivate     bool      `json:"isPrivate"`
	ManagerUserID uint      `json:"managerUserId"`
	CreatedAt     time.Time `json:"createdAt"`
}

type RoomUserResponse struct {
	UserID   uint   `json:"userId"`
	NickName string `json:"nickName"`
	PhotoURL string `json:"photoUrl"`
}

// FindRoomByID 实现 RoomResolver
func (s *RoomService) FindRoomByID(roomID uint) (*model.Room, error) {
	return s.RoomRepo.FindByID(roomID)
}

// CreatePublicRoom 创建公开房间，房名要过敏感词且全局唯一
func (s *RoomService) CreatePublicRoom(req CreateRoomRequest, managerUserID uint) (*RoomResponse, error) {
	return s.createRoom(req.RoomName, "", managerUserID)
}

// CreatePrivateRoom 创建私有房间，入场密码以 bcrypt 存储
func (s *RoomService) CreatePrivateRoom(req CreateRoomRequest, managerUserID uint) (*RoomResponse, error) {
	if req.RoomPassword == "" {
		return nil, util.ErrInvalidPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.RoomPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.createRoom(req.RoomName, string(hashed), managerUserID)
}

func (s *RoomService) createRoom(roomName, hashedPassword string, managerUserID uint) (*RoomResponse, error) {
	if s.Filter.Check(roomName) {
		return nil, util.ErrProfanityDetected
	}

	existing, err := s.RoomRepo.FindByRoomName(roomName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrDuplicateRoomName
	}

	count, err := s.RoomRepo.CountByManager(managerUserID)
	if err != nil {
		return nil, err
	}
	if count >= maxRoomsPerManager {
		return nil, util.ErrRoomLimitExceeded
	}

	room := &model.Room{
		RoomName:      roomName,
		RoomPassword:  hashedPassword,
		ManagerUserID: managerUserID,
	}
	if err := s.RoomRepo.Create(room); err != nil {
		return nil, err
	}

	// 房主自动入场
	if err := s.StudentRepo.Create(&model.Student{RoomID: room.ID, UserID: managerUserID}); err != nil {
		return nil, err
	}

	return newRoomResponse(room), nil
}

func (s *RoomService) GetRoomListWithPage(page, size int) ([]RoomResponse, int64, error) {
	rooms, total, err := s.RoomRepo.FindWithPagination(page, size)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]RoomResponse, len(rooms))
	for i := range rooms {
		responses[i] = *newRoomResponse(&rooms[i])
	}
	return responses, total, nil
}

// GetRoomsOfUser 用户加入过的全部房间
func (s *RoomService) GetRoomsOfUser(userID uint) ([]RoomResponse, error) {
	rooms, err := s.StudentRepo.FindRoomsByUser(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]RoomResponse, len(rooms))
	for i := range rooms {
		responses[i] = *newRoomResponse(&rooms[i])
	}
	return responses, nil
}

func (s *RoomService) GetRoomDetail(roomID uint) (*RoomResponse, error) {
	room, err := s.RoomRepo.FindByID(roomID)
	if err != nil {
		return nil, err
	}
	return newRoomResponse(room), nil
}

// UpdateRoom 仅房主可以改名
func (s *RoomService) UpdateRoom(managerUserID, roomID uint, newName string) error {
	room, err := s.RoomRepo.FindByID(roomID)
	if err != nil {
		return err
	}
	if room.ManagerUserID != managerUserID {
		return util.ErrPermissionDenied
	}
	if s.Filter.Check(newName) {
		return util.ErrProfanityDetected
	}

	existing, err := s.RoomRepo.FindByRoomName(newName)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != room.ID {
		return util.ErrDuplicateRoomName
	}

	room.RoomName = newName
	return s.RoomRepo.Update(room)
}

// DeleteRoom 仅房主可删，级联删除房间内全部数据
func (s *RoomService) DeleteRoom(managerUserID, roomID uint) error {
	room, err := s.RoomRepo.FindByID(roomID)
	if err != nil {
		return err
	}
	if room.ManagerUserID != managerUserID {
		return util.ErrPermissionDenied
	}
	return s.RoomRepo.Delete(room)
}

// EntryPublicRoom 入场公开房间，重复入场不产生第二条成员记录
func (s *RoomService) EntryPublicRoom(roomID, userID uint) (*RoomUserResponse, error) {
	room, err := s.RoomRepo.FindByID(roomID)
	if err != nil {
		return nil, err
	}
	if room.IsPrivate() {
		return nil, util.ErrRoomPasswordWrong
	}
	return s.enter(room, userID)
}

// EntryPrivateRoom 校验入场密码后入场
func (s *RoomService) EntryPrivateRoom(roomID, userID uint, password string) (*RoomUserResponse, error) {
	room, err := s.RoomRepo.FindByID(roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsPrivate() {
		return s.enter(room, userID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(room.RoomPassword), []byte(password)); err != nil {
		return nil, util.ErrRoomPasswordWrong
	}
	return s.enter(room, userID)
}

func (s *RoomService) enter(room *model.Room, userID uint) (*RoomUserResponse, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.StudentRepo.Create(&model.Student{RoomID: room.ID, UserID: userID}); err != nil {
		return nil, err
	}
	return &RoomUserResponse{
		UserID:   user.ID,
		NickName: user.NickName,
		PhotoURL: user.PhotoURL,
	}, nil
}

// GetRoomUsers 房间内全部成员
func (s *RoomService) GetRoomUsers(roomID uint) ([]RoomUserResponse, error) {
	if _, err := s.RoomRepo.FindByID(roomID); err != nil {
		return nil, err
	}

	students, err := s.StudentRepo.FindByRoomWithUser(roomID)
	if err != nil {
		return nil, err
	}

	responses := make([]RoomUserResponse, len(students))
	for i, st := range students {
		responses[i] = RoomUserResponse{
			UserID:   st.UserID,
			NickName: st.User.NickName,
			PhotoURL: st.User.PhotoURL,
		}
	}
	return responses, nil
}

func newRoomResponse(room *model.Room) *RoomResponse {
	return &RoomResponse{
		RoomID:        room.ID,
		RoomName:      room.RoomName,
		IsPrivate:     room.IsPrivate(),
		ManagerUserID: room.ManagerUserID,
		CreatedAt:     room.CreatedAt,
	}
}
