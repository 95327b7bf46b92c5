package controller

import (
	"eduwithme_backend/internal/service"
	"eduwithme_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type verifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type reissueRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// @Summary 发送注册验证码
// @Description 给未注册邮箱发送 6 位验证码，5 分钟内有效
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body emailRequest true "邮箱"
// @Success 200 {object} util.Response
// @Router /api/auth/signup/code [post]
func (c *AuthController) SendSignupCode(ctx *gin.Context) {
	var req emailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.SendSignupCode(ctx.Request.Context(), req.Email); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 校验注册验证码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body verifyCodeRequest true "邮箱与验证码"
// @Success 200 {object} util.Response
// @Router /api/auth/signup/verify [post]
func (c *AuthController) VerifySignupCode(ctx *gin.Context) {
	var req verifyCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.VerifySignupCode(ctx.Request.Context(), req.Email, req.Code); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 注册
// @Description 邮箱必须先完成验证码验证
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body service.SignupRequest true "注册信息"
// @Success 201 {object} util.Response
// @Router /api/auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req service.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.Signup(ctx.Request.Context(), req); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, nil)
}

// @Summary 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body service.LoginRequest true "登录信息"
// @Success 200 {object} util.Response
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pair, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, pair)
}

// @Summary 刷新 token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body reissueRequest true "refresh token"
// @Success 200 {object} util.Response
// @Router /api/auth/reissue [post]
func (c *AuthController) Reissue(ctx *gin.Context) {
	var req reissueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pair, err := c.AuthService.Reissue(req.RefreshToken)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, pair)
}

// @Summary 注销登录
// @Description 拉黑当前 access token 并失效 refresh token
// @Tags 认证
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	accessToken := ctx.GetString("access_token")
	if err := c.AuthService.Logout(ctx.Request.Context(), accessToken, user.UserID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 找回密码验证码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body emailRequest true "邮箱"
// @Success 200 {object} util.Response
// @Router /api/auth/password/code [post]
func (c *AuthController) RequestTempPassword(ctx *gin.Context) {
	var req emailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.RequestTempPassword(ctx.Request.Context(), req.Email); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 临时密码重置
// @Description 验证码正确后邮件下发临时密码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body verifyCodeRequest true "邮箱与验证码"
// @Success 200 {object} util.Response
// @Router /api/auth/password/reset [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req verifyCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ResetPasswordWithTempPassword(ctx.Request.Context(), req.Email, req.Code); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 昵称可用性检查
// @Tags 认证
// @Produce json
// @Param nickname query string true "昵称"
// @Success 200 {object} util.Response
// @Router /api/auth/nickname [get]
func (c *AuthController) CheckNickname(ctx *gin.Context) {
	nickname := ctx.Query("nickname")
	if nickname == "" {
		util.BadRequest(ctx, "nickname is required")
		return
	}

	available, err := c.AuthService.IsNicknameAvailable(nickname)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"available": available})
}

// @Summary 注销账户
// @Description 删除名下房间、成员记录和评论
// @Tags 认证
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/auth/withdraw [delete]
func (c *AuthController) Withdraw(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AuthService.DeleteUser(user.UserID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
