package service

import (
	"eduwithme_backend/internal/model"
	"eduwithme_backend/internal/util"
	"strings"
	"time"
)

// ProfanityFilter 敏感词检测，命中返回 true
type ProfanityFilter interface {
	Check(text string) bool
}

// RoomResolver 房间解析，找不到时返回 util.ErrRoomNotFound
type RoomResolver interface {
	FindRoomByID(roomID uint) (*model.Room, error)
}

// QuestionStore 题目持久化。CreateInRoom 负责在一个事务内
// 分配 order_in_room，并发创建同一房间时序号不重复。
type QuestionStore interface {
	CreateInRoom(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindAllByRoom(roomID uint, page, size int) ([]model.Question, int64, error)
	SearchByTitle(roomID uint, keyword string, page, size int) ([]model.Question, error)
	Update(question *model.Question) error
	Delete(question *model.Question) error
}

// LearningStatusStore 学习状态持久化，(question, user) 至多一行
type LearningStatusStore interface {
	FindByQuestionAndUser(questionID, userID uint) (*model.LearningStatus, error)
	Save(status *model.LearningStatus) error
	FindSolvedUsers(questionID uint) ([]model.User, error)
	TotalPointsByUserAndType(userID uint, questionType model.QuestionType) (int64, error)
}

type QuestionService struct {
	Questions QuestionStore
	Statuses  LearningStatusStore
	Rooms     RoomResolver
	Filter    ProfanityFilter
}

func NewQuestionService(questions QuestionStore, statuses LearningStatusStore, rooms RoomResolver, filter ProfanityFilter) *QuestionService {
	return &QuestionService{
		Questions: questions,
		Statuses:  statuses,
		Rooms:     rooms,
		Filter:    filter,
	}
}

type AnswerRequest struct {
	First    string `json:"first" binding:"required"`
	Second   string `json:"second" binding:"required"`
	Third    string `json:"third" binding:"required"`
	Fourth   string `json:"fourth" binding:"required"`
	Answered int    `json:"answered" binding:"required,min=1,max=4"`
}

type QuestionRequest struct {
	Title      string           `json:"title" binding:"required"`
	Content    string           `json:"content" binding:"required"`
	Category   model.Category   `json:"category" binding:"required"`
	Difficulty model.Difficulty `json:"difficulty" binding:"required"`
	// 分值由难度推导，客户端传入的值会被忽略
	Point  int64         `json:"point"`
	Answer AnswerRequest `json:"answer" binding:"required"`
}

type QuestionResponse struct {
	QuestionID uint             `json:"questionId"`
	Title      string           `json:"title"`
	Content    string           `json:"content"`
	Category   model.Category   `json:"category"`
	Difficulty model.Difficulty `json:"difficulty"`
	Point      int64            `json:"point"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

type QuestionTitleResponse struct {
	QuestionID  uint      `json:"questionId"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"`
	Point       int64     `json:"point"`
	OrderInRoom int64     `json:"orderInRoom"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// QuestionDetailResponse 返回四个选项但不含正确答案序号
type QuestionDetailResponse struct {
	QuestionResponse
	OrderInRoom int64    `json:"orderInRoom"`
	Choices     []string `json:"choices"`
}

type AnswerSubmission struct {
	SelectedAnswer int `json:"selectedAnswer" binding:"required,min=1,max=4"`
}

type AnswerResult struct {
	IsCorrect    bool   `json:"isCorrect"`
	EarnedPoints int64  `json:"earnedPoints"`
	Message      string `json:"message"`
}

type SolvedUserResponse struct {
	UserID   uint   `json:"userId"`
	NickName string `json:"nickName"`
	PhotoURL string `json:"photoUrl"`
}

const (
	msgCorrectAnswer = "correct answer"
	msgWrongAnswer   = "wrong answer"
)

// PointForDifficulty 难度到分值的纯映射
func PointForDifficulty(difficulty model.Difficulty) (int64, error) {
	switch difficulty {
	case model.LevelOne:
		return 10, nil
	case model.LevelTwo:
		return 20, nil
	case model.LevelThree:
		return 30, nil
	case model.LevelFour:
		return 40, nil
	case model.LevelFive:
		return 50, nil
	default:
		return 0, util.ErrInvalidDifficulty
	}
}

// CreateQuestion 校验全部通过后才落库，任何一步失败都不会占用房间序号
func (s *QuestionService) CreateQuestion(roomID uint, req QuestionRequest) (*QuestionResponse, error) {
	room, err := s.Rooms.FindRoomByID(roomID)
	if err != nil {
		return nil, err
	}

	if s.Filter.Check(req.Title) || s.Filter.Check(req.Content) {
		return nil, util.ErrProfanityDetected
	}

	if s.Filter.Check(req.Answer.First) ||
		s.Filter.Check(req.Answer.Second) ||
		s.Filter.Check(req.Answer.Third) ||
		s.Filter.Check(req.Answer.Fourth) {
		return nil, util.ErrProfanityDetected
	}

	point, err := PointForDifficulty(req.Difficulty)
	if err != nil {
		return nil, err
	}

	question := &model.Question{
		RoomID:     room.ID,
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Difficulty: req.Difficulty,
		Point:      point,
		Answer: &model.Answer{
			First:    req.Answer.First,
			Second:   req.Answer.Second,
			Third:    req.Answer.Third,
			Fourth:   req.Answer.Fourth,
			Answered: req.Answer.Answered,
		},
	}

	if err := s.Questions.CreateInRoom(question); err != nil {
		return nil, err
	}

	return newQuestionResponse(question), nil
}

// GetAllQuestion 房间内按 id 升序分页
func (s *QuestionService) GetAllQuestion(roomID uint, page, size int) ([]QuestionResponse, int64, error) {
	room, err := s.Rooms.FindRoomByID(roomID)
	if err != nil {
		return nil, 0, err
	}

	questions, total, err := s.Questions.FindAllByRoom(room.ID, page, size)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]QuestionResponse, len(questions))
	for i := range questions {
		responses[i] = *newQuestionResponse(&questions[i])
	}
	return responses, total, nil
}

// SearchQuestionByTitle 标题模糊搜索，关键词不能为空且要过敏感词
func (s *QuestionService) SearchQuestionByTitle(roomID uint, keyword string, page, size int) ([]QuestionTitleResponse, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, util.ErrKeywordNotFound
	}
	if s.Filter.Check(keyword) {
		return nil, util.ErrProfanityDetected
	}

	room, err := s.Rooms.FindRoomByID(roomID)
	if err != nil {
		return nil, err
	}

	questions, err := s.Questions.SearchByTitle(room.ID, strings.TrimSpace(keyword), page, size)
	if err != nil {
		return nil, err
	}

	responses := make([]QuestionTitleResponse, len(questions))
	for i, q := range questions {
		responses[i] = QuestionTitleResponse{
			QuestionID:  q.ID,
			Title:       q.Title,
			Category:    q.Category.DisplayName(),
			Difficulty:  string(q.Difficulty),
			Point:       q.Point,
			OrderInRoom: q.OrderInRoom,
			CreatedAt:   q.CreatedAt,
			UpdatedAt:   q.UpdatedAt,
		}
	}
	return responses, nil
}

// UpdateQuestion 整体替换题目与答案，失败时不落任何改动
func (s *QuestionService) UpdateQuestion(roomID, questionID uint, req QuestionRequest) (*QuestionResponse, error) {
	question, err := s.resolveQuestionInRoom(roomID, questionID)
	if err != nil {
		return nil, err
	}

	point, err := PointForDifficulty(req.Difficulty)
	if err != nil {
		return nil, err
	}

	if s.Filter.Check(req.Title) || s.Filter.Check(req.Content) {
		return nil, util.ErrProfanityDetected
	}
	if s.Filter.Check(req.Answer.First) ||
		s.Filter.Check(req.Answer.Second) ||
		s.Filter.Check(req.Answer.Third) ||
		s.Filter.Check(req.Answer.Fourth) {
		return nil, util.ErrProfanityDetected
	}

	if question.Answer == nil {
		return nil, util.ErrAnswerNotFound
	}

	question.Title = req.Title
	question.Content = req.Content
	question.Category = req.Category
	question.Difficulty = req.Difficulty
	question.Point = point
	question.Answer.First = req.Answer.First
	question.Answer.Second = req.Answer.Second
	question.Answer.Third = req.Answer.Third
	question.Answer.Fourth = req.Answer.Fourth
	question.Answer.Answered = req.Answer.Answered

	if err := s.Questions.Update(question); err != nil {
		return nil, err
	}
	return newQuestionResponse(question), nil
}

func (s *QuestionService) DeleteQuestion(roomID, questionID uint) error {
	question, err := s.resolveQuestionInRoom(roomID, questionID)
	if err != nil {
		return err
	}
	return s.Questions.Delete(question)
}

func (s *QuestionService) GetQuestionDetail(roomID, questionID uint) (*QuestionDetailResponse, error) {
	question, err := s.resolveQuestionInRoom(roomID, questionID)
	if err != nil {
		return nil, err
	}

	detail := &QuestionDetailResponse{
		QuestionResponse: *newQuestionResponse(question),
		OrderInRoom:      question.OrderInRoom,
	}
	if question.Answer != nil {
		detail.Choices = question.Answer.Choices()
	}
	return detail, nil
}

// SubmitAnswer 判题状态机。
// 正确提交：无记录则建 SOLVE，WRONG 则迁移为 SOLVE，SOLVE 保持不变；
// 错误提交：无记录则建 WRONG，已有记录（含 SOLVE）不做任何变更。
// 正确时响应总是带题目分值；总分聚合只看 SOLVE 状态行，不会重复计分。
func (s *QuestionService) SubmitAnswer(roomID, questionID, userID uint, submission AnswerSubmission) (*AnswerResult, error) {
	question, err := s.resolveQuestionInRoom(roomID, questionID)
	if err != nil {
		return nil, err
	}

	if question.Answer == nil {
		return nil, util.ErrAnswerNotFound
	}

	isCorrect := submission.SelectedAnswer == question.Answer.Answered

	status, err := s.Statuses.FindByQuestionAndUser(question.ID, userID)
	if err != nil {
		return nil, err
	}

	result := &AnswerResult{IsCorrect: isCorrect}

	if isCorrect {
		result.EarnedPoints = question.Point
		result.Message = msgCorrectAnswer

		switch {
		case status == nil:
			newStatus := &model.LearningStatus{
				QuestionID:   question.ID,
				UserID:       userID,
				QuestionType: model.QuestionSolve,
			}
			if err := s.Statuses.Save(newStatus); err != nil {
				return nil, err
			}
		case status.QuestionType == model.QuestionWrong:
			status.QuestionType = model.QuestionSolve
			if err := s.Statuses.Save(status); err != nil {
				return nil, err
			}
		}
		// 已是 SOLVE 时不再写库，重复提交不会产生第二行
	} else {
		result.Message = msgWrongAnswer

		if status == nil {
			newStatus := &model.LearningStatus{
				QuestionID:   question.ID,
				UserID:       userID,
				QuestionType: model.QuestionWrong,
			}
			if err := s.Statuses.Save(newStatus); err != nil {
				return nil, err
			}
		}
		// 已解出的题答错不回退状态
	}

	return result, nil
}

// GetSolvedStudents 返回已解出该题的用户，每人至多出现一次
func (s *QuestionService) GetSolvedStudents(roomID, questionID uint) ([]SolvedUserResponse, error) {
	question, err := s.resolveQuestionInRoom(roomID, questionID)
	if err != nil {
		return nil, err
	}

	users, err := s.Statuses.FindSolvedUsers(question.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]SolvedUserResponse, len(users))
	for i, u := range users {
		responses[i] = SolvedUserResponse{
			UserID:   u.ID,
			NickName: u.NickName,
			PhotoURL: u.PhotoURL,
		}
	}
	return responses, nil
}

// GetTotalPoints 按当前学习状态聚合分值
func (s *QuestionService) GetTotalPoints(userID uint, questionType model.QuestionType) (int64, error) {
	return s.Statuses.TotalPointsByUserAndType(userID, questionType)
}

func (s *QuestionService) resolveQuestionInRoom(roomID, questionID uint) (*model.Question, error) {
	room, err := s.Rooms.FindRoomByID(roomID)
	if err != nil {
		return nil, err
	}

	question, err := s.Questions.FindByID(questionID)
	if err != nil {
		return nil, err
	}

	if question.RoomID != room.ID {
		return nil, util.ErrRoomMismatch
	}
	return question, nil
}

func newQuestionResponse(q *model.Question) *QuestionResponse {
	return &QuestionResponse{
		QuestionID: q.ID,
		Title:      q.Title,
		Content:    q.Content,
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Point:      q.Point,
		UpdatedAt:  q.UpdatedAt,
	}
}
