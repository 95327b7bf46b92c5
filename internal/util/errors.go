package util

import (
	"errors"
	"net/http"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrRoomMismatch      = errors.New("question does not belong to this room")
	ErrAnswerNotFound    = errors.New("answer not found")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrProfanityDetected = errors.New("profanity detected")
	ErrKeywordNotFound   = errors.New("keyword is empty")

	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrInvalidAuthCode     = errors.New("invalid verification code")
	ErrEmailMismatch       = errors.New("email mismatch")
	ErrInvalidPassword     = errors.New("invalid password format")
	ErrWrongPassword       = errors.New("wrong password")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrRoomPasswordWrong   = errors.New("wrong room password")
	ErrRoomLimitExceeded   = errors.New("room limit exceeded")
	ErrDuplicateRoomName   = errors.New("room name already in use")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrNicknameUnavailable = errors.New("nickname already in use")
)

// StatusOf 把领域错误映射到 HTTP 状态码，未知错误视为内部错误
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrQuestionNotFound),
		errors.Is(err, ErrAnswerNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrCommentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRoomMismatch),
		errors.Is(err, ErrInvalidDifficulty),
		errors.Is(err, ErrProfanityDetected),
		errors.Is(err, ErrKeywordNotFound),
		errors.Is(err, ErrInvalidPassword),
		errors.Is(err, ErrInvalidAuthCode),
		errors.Is(err, ErrEmailMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrWrongPassword),
		errors.Is(err, ErrRoomPasswordWrong),
		errors.Is(err, ErrEmailNotVerified):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrEmailRegistered),
		errors.Is(err, ErrDuplicateRoomName),
		errors.Is(err, ErrRoomLimitExceeded),
		errors.Is(err, ErrNicknameUnavailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsDomainError 领域错误直接把 message 返回给调用方，内部错误只记录日志
func IsDomainError(err error) bool {
	return StatusOf(err) != http.StatusInternalServerError
}
