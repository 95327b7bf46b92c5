package service

import (
	"context"
	"errors"
	"testing"

	"eduwithme_backend/internal/config"
	"eduwithme_backend/internal/util"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// newAuthTestService 只接 Redis 的 AuthService，验证码流程不碰数据库
func newAuthTestService(t *testing.T) (*AuthService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewAuthService(nil, nil, nil, nil, nil, rdb, util.NewBadWordFilter(), &config.Config{})
	return svc, mr
}

func TestVerifySignupCode(t *testing.T) {
	svc, mr := newAuthTestService(t)
	ctx := context.Background()

	mr.Set("signup_code:a@b.com", "123456")

	if err := svc.VerifySignupCode(ctx, "a@b.com", "000000"); !errors.Is(err, util.ErrInvalidAuthCode) {
		t.Fatalf("错误验证码: err = %v, 期望 ErrInvalidAuthCode", err)
	}
	if err := svc.VerifySignupCode(ctx, "nobody@b.com", "123456"); !errors.Is(err, util.ErrInvalidAuthCode) {
		t.Fatalf("未发码邮箱: err = %v, 期望 ErrInvalidAuthCode", err)
	}

	if err := svc.VerifySignupCode(ctx, "a@b.com", "123456"); err != nil {
		t.Fatalf("正确验证码: err = %v", err)
	}
	if flag, _ := mr.Get("verified:a@b.com"); flag != "VERIFIED" {
		t.Fatalf("验证标记 = %q, 期望 VERIFIED", flag)
	}
	if mr.Exists("signup_code:a@b.com") {
		t.Fatal("验证通过后验证码应被删除")
	}
}

// Redis 故障要以内部错误上抛，不能伪装成验证码错误
func TestVerifySignupCodeRedisFailure(t *testing.T) {
	svc, mr := newAuthTestService(t)
	mr.SetError("connection refused")

	err := svc.VerifySignupCode(context.Background(), "a@b.com", "123456")
	if err == nil {
		t.Fatal("期望返回错误")
	}
	if util.IsDomainError(err) {
		t.Fatalf("Redis 故障被映射成领域错误: %v", err)
	}
}

func TestResetPasswordCodeRedisFailure(t *testing.T) {
	svc, mr := newAuthTestService(t)
	mr.SetError("connection refused")

	err := svc.ResetPasswordWithTempPassword(context.Background(), "a@b.com", "123456")
	if err == nil {
		t.Fatal("期望返回错误")
	}
	if util.IsDomainError(err) {
		t.Fatalf("Redis 故障被映射成领域错误: %v", err)
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	svc, _ := newAuthTestService(t)
	ctx := context.Background()

	if svc.IsBlacklisted(ctx, "some-token") {
		t.Fatal("未注销的 token 不应在黑名单中")
	}
	svc.Redis.Set(ctx, "token_blacklist:some-token", "1", 0)
	if !svc.IsBlacklisted(ctx, "some-token") {
		t.Fatal("已拉黑的 token 应命中黑名单")
	}
}
