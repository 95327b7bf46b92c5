package service

import (
	"context"
	"crypto/rand"
	"eduwithme_backend/internal/config"
	"eduwithme_backend/internal/model"
	"eduwithme_backend/internal/repository"
	"eduwithme_backend/internal/util"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	signupCodeKeyPrefix = "signup_code:"
	resetCodeKeyPrefix  = "reset_code:"
	verifiedKeyPrefix   = "verified:"
	blacklistKeyPrefix  = "token_blacklist:"

	authCodeTTL = 5 * time.Minute
	verifiedTTL = 5 * time.Minute
)

type AuthService struct {
	UserRepo    *repository.UserRepository
	RoomRepo    *repository.RoomRepository
	StudentRepo *repository.StudentRepository
	CommentRepo *repository.CommentRepository
	Mail        *MailService
	Redis       *redis.Client
	Filter      ProfanityFilter
	Cfg         *config.Config
}

func NewAuthService(
	userRepo *repository.UserRepository,
	roomRepo *repository.RoomRepository,
	studentRepo *repository.StudentRepository,
	commentRepo *repository.CommentRepository,
	mail *MailService,
	rdb *redis.Client,
	filter ProfanityFilter,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		UserRepo:    userRepo,
		RoomRepo:    roomRepo,
		StudentRepo: studentRepo,
		CommentRepo: commentRepo,
		Mail:        mail,
		Redis:       rdb,
		Filter:      filter,
		Cfg:         cfg,
	}
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	NickName string `json:"nickName" binding:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SendSignupCode 给未注册邮箱发送验证码，验证码 5 分钟内有效
func (s *AuthService) SendSignupCode(ctx context.Context, email string) error {
	existing, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		return util.ErrEmailRegistered
	}

	code, err := generateAuthCode()
	if err != nil {
		return err
	}

	if err := s.Redis.Set(ctx, signupCodeKeyPrefix+email, code, authCodeTTL).Err(); err != nil {
		return err
	}
	return s.Mail.SendAuthCode(email, code)
}

// VerifySignupCode 验证通过后把 VERIFIED 标记写进 Redis，注册时检查
func (s *AuthService) VerifySignupCode(ctx context.Context, email, code string) error {
	stored, err := s.Redis.Get(ctx, signupCodeKeyPrefix+email).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	if err == redis.Nil || stored != code {
		return util.ErrInvalidAuthCode
	}

	s.Redis.Del(ctx, signupCodeKeyPrefix+email)
	return s.Redis.Set(ctx, verifiedKeyPrefix+email, "VERIFIED", verifiedTTL).Err()
}

// Signup 注册。昵称要过敏感词，邮箱必须先完成验证码验证
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) error {
	if s.Filter.Check(req.NickName) {
		return util.ErrProfanityDetected
	}

	existing, err := s.UserRepo.FindByEmail(req.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return util.ErrEmailRegistered
	}

	verified, err := s.Redis.Get(ctx, verifiedKeyPrefix+req.Email).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	if err == redis.Nil || verified != "VERIFIED" {
		return util.ErrEmailNotVerified
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Email:    req.Email,
		Password: string(hashed),
		NickName: req.NickName,
		Role:     model.RoleStudent,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return err
	}

	s.Redis.Del(ctx, verifiedKeyPrefix+req.Email)
	return nil
}

// Login 签发 access + refresh 双 token，refresh token 落库便于失效
func (s *AuthService) Login(email, password string) (*TokenPair, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, util.ErrWrongPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrWrongPassword
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	user.LastLogin = time.Now()
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return pair, nil
}

// Reissue 用 refresh token 换新的 token 对
func (s *AuthService) Reissue(refreshToken string) (*TokenPair, error) {
	claims, err := util.ParseJWT(refreshToken, s.Cfg.JWT.Secret)
	if err != nil || claims.ID != util.TokenTypeRefresh {
		return nil, util.ErrInvalidAuthCode
	}

	user, err := s.UserRepo.FindByEmail(claims.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshToken != refreshToken {
		return nil, util.ErrInvalidAuthCode
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) issueTokens(user *model.User) (*TokenPair, error) {
	access, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.AccessExpireTime, util.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.RefreshExpireTime, util.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user.RefreshToken = refresh
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout 把 access token 拉黑到过期为止，并清掉 refresh token
func (s *AuthService) Logout(ctx context.Context, accessToken string, userID uint) error {
	claims, err := util.ParseJWT(accessToken, s.Cfg.JWT.Secret)
	if err == nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			if err := s.Redis.Set(ctx, blacklistKeyPrefix+accessToken, "1", ttl).Err(); err != nil {
				return err
			}
		}
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return err
	}
	user.RefreshToken = ""
	return s.UserRepo.Update(user)
}

// IsBlacklisted access token 是否已注销
func (s *AuthService) IsBlacklisted(ctx context.Context, accessToken string) bool {
	_, err := s.Redis.Get(ctx, blacklistKeyPrefix+accessToken).Result()
	return err == nil
}

// RequestTempPassword 给已注册邮箱发送找回密码验证码
func (s *AuthService) RequestTempPassword(ctx context.Context, email string) error {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return util.ErrUserNotFound
	}

	code, err := generateAuthCode()
	if err != nil {
		return err
	}
	if err := s.Redis.Set(ctx, resetCodeKeyPrefix+email, code, authCodeTTL).Err(); err != nil {
		return err
	}
	return s.Mail.SendAuthCode(email, code)
}

// ResetPasswordWithTempPassword 验证码正确后下发临时密码
func (s *AuthService) ResetPasswordWithTempPassword(ctx context.Context, email, code string) error {
	stored, err := s.Redis.Get(ctx, resetCodeKeyPrefix+email).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	if err == redis.Nil || stored != code {
		return util.ErrInvalidAuthCode
	}

	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return util.ErrUserNotFound
	}

	tempPassword := uuid.New().String()[:8]
	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	if err := s.UserRepo.Update(user); err != nil {
		return err
	}

	if err := s.Mail.SendTempPassword(email, tempPassword); err != nil {
		return err
	}

	s.Redis.Del(ctx, resetCodeKeyPrefix+email)
	return nil
}

// IsNicknameAvailable 昵称是否可用
func (s *AuthService) IsNicknameAvailable(nickname string) (bool, error) {
	existing, err := s.UserRepo.FindByNickName(nickname)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

// DeleteUser 注销账户：删除名下房间、成员记录和评论，最后删用户
func (s *AuthService) DeleteUser(userID uint) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return err
	}

	rooms, err := s.RoomRepo.FindAllByManager(userID)
	if err != nil {
		return err
	}
	for i := range rooms {
		if err := s.RoomRepo.Delete(&rooms[i]); err != nil {
			return err
		}
	}

	if err := s.StudentRepo.DeleteAllByUser(userID); err != nil {
		return err
	}
	if err := s.CommentRepo.DeleteAllByUser(userID); err != nil {
		return err
	}

	return s.UserRepo.Delete(user)
}

// generateAuthCode 6 位数字验证码
func generateAuthCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
