package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrRoomNotFound, http.StatusNotFound},
		{ErrQuestionNotFound, http.StatusNotFound},
		{ErrRoomMismatch, http.StatusBadRequest},
		{ErrInvalidDifficulty, http.StatusBadRequest},
		{ErrProfanityDetected, http.StatusBadRequest},
		{ErrKeywordNotFound, http.StatusBadRequest},
		{ErrWrongPassword, http.StatusUnauthorized},
		{ErrPermissionDenied, http.StatusForbidden},
		{ErrDuplicateRoomName, http.StatusConflict},
		{ErrRoomLimitExceeded, http.StatusConflict},
		{errors.New("database exploded"), http.StatusInternalServerError},
		{fmt.Errorf("looking up room: %w", ErrRoomNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.want {
			t.Errorf("StatusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestIsDomainError(t *testing.T) {
	if !IsDomainError(ErrRoomNotFound) {
		t.Error("IsDomainError(ErrRoomNotFound) = false, want true")
	}
	if IsDomainError(errors.New("driver: bad connection")) {
		t.Error("IsDomainError(unknown) = true, want false")
	}
}
