package controller

import (
	"eduwithme_backend/internal/model"
	"eduwithme_backend/internal/service"
	"eduwithme_backend/internal/util"
	"eduwithme_backend/pkg/monitoring"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultQuestionPageSize = 5

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// @Summary 创建题目
// @Description 在房间内创建一道四选一题目，分值由难度决定
// @Tags 题目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Param question body service.QuestionRequest true "题目内容"
// @Success 201 {object} util.Response
// @Router /api/rooms/{roomId}/question [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	roomID, err := parseUintParam(ctx, "roomId")
	if err != nil {
		util.BadRequest(ctx, "invalid room id")
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.CreateQuestion(roomID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, question)
}

// @Summary 题目全量查询
// @Description 房间内题目按 id 升序分页
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(5)
// @Success 200 {object} util.Response
// @Router /api/rooms/{roomId}/question [get]
func (c *QuestionController) GetAllQuestion(ctx *gin.Context) {
	roomID, err := parseUintParam(ctx, "roomId")
	if err != nil {
		util.BadRequest(ctx, "invalid room id")
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", strconv.Itoa(defaultQuestionPageSize)))

	questions, total, err := c.QuestionService.GetAllQuestion(roomID, page, size)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  questions,
		Total: total,
		Page:  page,
		Limit: size,
	})
}

// @Summary 题目标题搜索
// @Description 房间内标题模糊搜索，按更新时间升序
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Param keyword query string true "搜索关键词"
// @Param page query int false "页码" default(1)
// @Success 200 {object} util.Response
// @Router /api/search/rooms/{roomId}/question/title [get]
func (c *QuestionController) SearchQuestionByTitle(ctx *gin.Context) {
	roomID, err := parseUintParam(ctx, "roomId")
	if err != nil {
		util.BadRequest(ctx, "invalid room id")
		return
	}

	keyword := ctx.Query("keyword")
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))

	questions, err := c.QuestionService.SearchQuestionByTitle(roomID, keyword, page, defaultQuestionPageSize)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

// @Summary 修改题目
// @Description 整体替换题目与答案
// @Tags 题目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Param questionId path int true "题目ID"
// @Param question body service.QuestionRequest true "题目内容"
// @Success 200 {object} util.Response
// @Router /api/rooms/{roomId}/question/{questionId} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	roomID, questionID, ok := parseRoomAndQuestion(ctx)
	if !ok {
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.UpdateQuestion(roomID, questionID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, question)
}

// @Summary 删除题目
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Param questionId path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/rooms/{roomId}/question/{questionId} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	roomID, questionID, ok := parseRoomAndQuestion(ctx)
	if !ok {
		return
	}

	if err := c.QuestionService.DeleteQuestion(roomID, questionID); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 题目单件查询
// @Description 返回四个选项但不返回正确答案序号
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Param questionId path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/rooms/{roomId}/question/{questionId} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	roomID, questionID, ok := parseRoomAndQuestion(ctx)
	if !ok {
		return
	}

	detail, err := c.QuestionService.GetQuestionDetail(roomID, questionID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// @Summary 提交答案
// @Description 判题并维护学习状态，重复提交不会重复记录
// @Tags 题目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Param questionId path int true "题目ID"
// @Param submission body service.AnswerSubmission true "选中的选项(1..4)"
// @Success 200 {object} util.Response
// @Router /api/rooms/{roomId}/question/{questionId}/submit [post]
func (c *QuestionController) SubmitAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	roomID, questionID, ok := parseRoomAndQuestion(ctx)
	if !ok {
		return
	}

	var submission service.AnswerSubmission
	if err := ctx.ShouldBindJSON(&submission); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuestionService.SubmitAnswer(roomID, questionID, user.UserID, submission)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if result.IsCorrect {
		monitoring.AnswerSubmissions.WithLabelValues("correct").Inc()
	} else {
		monitoring.AnswerSubmissions.WithLabelValues("wrong").Inc()
	}

	util.Success(ctx, result)
}

// @Summary 解题学生列表
// @Description 当前状态为 SOLVE 的学生，每人只出现一次
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param roomId path int true "房间ID"
// @Param questionId path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/rooms/{roomId}/question/{questionId}/solved-students [get]
func (c *QuestionController) GetSolvedStudents(ctx *gin.Context) {
	roomID, questionID, ok := parseRoomAndQuestion(ctx)
	if !ok {
		return
	}

	students, err := c.QuestionService.GetSolvedStudents(roomID, questionID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, students)
}

// @Summary 我的总分
// @Description 按学习状态聚合分值，type 取 SOLVE 或 WRONG
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param type query string false "学习状态" default(SOLVE)
// @Success 200 {object} util.Response
// @Router /api/users/points [get]
func (c *QuestionController) GetTotalPoints(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	questionType := model.QuestionType(ctx.DefaultQuery("type", string(model.QuestionSolve)))
	if questionType != model.QuestionSolve && questionType != model.QuestionWrong {
		util.BadRequest(ctx, "invalid question type")
		return
	}

	total, err := c.QuestionService.GetTotalPoints(user.UserID, questionType)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"totalPoints": total})
}

func parseUintParam(ctx *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

func parseRoomAndQuestion(ctx *gin.Context) (uint, uint, bool) {
	roomID, err := parseUintParam(ctx, "roomId")
	if err != nil {
		util.BadRequest(ctx, "invalid room id")
		return 0, 0, false
	}
	questionID, err := parseUintParam(ctx, "questionId")
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return 0, 0, false
	}
	return roomID, questionID, true
}
