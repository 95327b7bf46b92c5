package controller

import (
	"eduwithme_backend/internal/service"
	"eduwithme_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultCommentPageSize = 10

type CommentController struct {
	CommentService *service.CommentService
}

func NewCommentController(commentService *service.CommentService) *CommentController {
	return &CommentController{CommentService: commentService}
}

// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Param questionId path int true "题目ID"
// @Param request body service.CommentRequest true "评论内容"
// @Success 201 {object} util.Response
// @Router /api/rooms/{roomId}/question/{questionId}/comments [post]
func (c *CommentController) CreateComment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	roomID, questionID, ok := parseRoomAndQuestion(ctx)
	if !ok {
		return
	}

	var req service.CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	comment, err := c.CommentService.CreateComment(roomID, questionID, user.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, comment)
}

// @Summary 题目评论列表
// @Tags 评论
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Param questionId path int true "题目ID"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} util.Response
// @Router /api/rooms/{roomId}/question/{questionId}/comments [get]
func (c *CommentController) GetComments(ctx *gin.Context) {
	roomID, questionID, ok := parseRoomAndQuestion(ctx)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", strconv.Itoa(defaultCommentPageSize)))

	comments, total, err := c.CommentService.GetComments(roomID, questionID, page, size)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  comments,
		Total: total,
		Page:  page,
		Limit: size,
	})
}

// @Summary 我的评论
// @Description 带房间名和题目序号
// @Tags 评论
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} util.Response
// @Router /api/users/comments [get]
func (c *CommentController) GetMyComments(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", strconv.Itoa(defaultCommentPageSize)))

	rows, total, err := c.CommentService.GetUserComments(user.UserID, page, size)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  rows,
		Total: total,
		Page:  page,
		Limit: size,
	})
}

// @Summary 修改评论
// @Description 仅作者本人可操作
// @Tags 评论
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param commentId path int true "评论ID"
// @Param request body service.CommentRequest true "评论内容"
// @Success 200 {object} util.Response
// @Router /api/comments/{commentId} [put]
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	commentID, err := parseUintParam(ctx, "commentId")
	if err != nil {
		util.BadRequest(ctx, "invalid comment id")
		return
	}

	var req service.CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CommentService.UpdateComment(commentID, user.UserID, req); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 删除评论
// @Description 仅作者本人可操作
// @Tags 评论
// @Produce json
// @Security ApiKeyAuth
// @Param commentId path int true "评论ID"
// @Success 200 {object} util.Response
// @Router /api/comments/{commentId} [delete]
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	commentID, err := parseUintParam(ctx, "commentId")
	if err != nil {
		util.BadRequest(ctx, "invalid comment id")
		return
	}

	if err := c.CommentService.DeleteComment(commentID, user.UserID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
