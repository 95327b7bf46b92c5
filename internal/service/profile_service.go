package service

import (
	"context"
	"eduwithme_backend/internal/repository"
	"eduwithme_backend/internal/util"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// 至少 8 位，包含大小写字母、数字和特殊字符
var passwordPattern = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,}$`)

func validPassword(password string) bool {
	if !passwordPattern.MatchString(password) {
		return false
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSpecial
}

type ProfileService struct {
	UserRepo *repository.UserRepository
	Storage  *StorageService
	Filter   ProfanityFilter
}

func NewProfileService(userRepo *repository.UserRepository, storage *StorageService, filter ProfanityFilter) *ProfileService {
	return &ProfileService{
		UserRepo: userRepo,
		Storage:  storage,
		Filter:   filter,
	}
}

type UserProfileResponse struct {
	Email    string `json:"email"`
	NickName string `json:"nickName"`
	PhotoURL string `json:"photoUrl"`
	Ranking  int64  `json:"ranking"`
}

type UpdateProfileRequest struct {
	Email    string `json:"email" binding:"required,email"`
	NickName string `json:"nickName" binding:"required,max=100"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func (s *ProfileService) GetUserProfile(userID uint) (*UserProfileResponse, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	return &UserProfileResponse{
		Email:    user.Email,
		NickName: user.NickName,
		PhotoURL: user.PhotoURL,
		Ranking:  user.Ranking,
	}, nil
}

// UpdateUserProfile 改昵称前核对邮箱，防止拿到别人 token 后乱改
func (s *ProfileService) UpdateUserProfile(userID uint, req UpdateProfileRequest) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return err
	}

	if user.Email != req.Email {
		return util.ErrEmailMismatch
	}
	if s.Filter.Check(req.NickName) {
		return util.ErrProfanityDetected
	}

	if req.NickName != user.NickName {
		existing, err := s.UserRepo.FindByNickName(req.NickName)
		if err != nil {
			return err
		}
		if existing != nil {
			return util.ErrNicknameUnavailable
		}
	}

	user.NickName = req.NickName
	return s.UserRepo.Update(user)
}

// UpdateUserPassword 校验格式和当前密码后更新
func (s *ProfileService) UpdateUserPassword(userID uint, req UpdatePasswordRequest) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return err
	}

	if !validPassword(req.NewPassword) {
		return util.ErrInvalidPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return util.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	return s.UserRepo.Update(user)
}

// UploadAvatar 头像走存储服务，返回可访问的 URL
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (string, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	filename := fmt.Sprintf("avatars/%d_%s%s", userID, uuid.New().String(), filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")

	url, err := s.Storage.Provider.Upload(ctx, filename, src, file.Size, contentType)
	if err != nil {
		return "", err
	}

	user.PhotoURL = url
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}
	return url, nil
}
