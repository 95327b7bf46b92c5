package service

import (
	"eduwithme_backend/internal/model"
	"eduwithme_backend/internal/repository"
	"eduwithme_backend/internal/util"
	"time"
)

type CommentService struct {
	CommentRepo *repository.CommentRepository
	Questions   QuestionStore
	Rooms       RoomResolver
	Filter      ProfanityFilter
}

func NewCommentService(commentRepo *repository.CommentRepository, questions QuestionStore, rooms RoomResolver, filter ProfanityFilter) *CommentService {
	return &CommentService{
		CommentRepo: commentRepo,
		Questions:   questions,
		Rooms:       rooms,
		Filter:      filter,
	}
}

type CommentRequest struct {
	Comment string `json:"comment" binding:"required,max=500"`
}

type CommentResponse struct {
	CommentID uint      `json:"commentId"`
	NickName  string    `json:"nickName"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateComment 在题目下发表评论，内容要过敏感词
func (s *CommentService) CreateComment(roomID, questionID, userID uint, req CommentRequest) (*CommentResponse, error) {
	question, err := s.resolveQuestion(roomID, questionID)
	if err != nil {
		return nil, err
	}

	if s.Filter.Check(req.Comment) {
		return nil, util.ErrProfanityDetected
	}

	comment := &model.Comment{
		QuestionID: question.ID,
		UserID:     userID,
		Comment:    req.Comment,
	}
	if err := s.CommentRepo.Create(comment); err != nil {
		return nil, err
	}

	return &CommentResponse{
		CommentID: comment.ID,
		Comment:   comment.Comment,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}, nil
}

func (s *CommentService) GetComments(roomID, questionID uint, page, size int) ([]CommentResponse, int64, error) {
	question, err := s.resolveQuestion(roomID, questionID)
	if err != nil {
		return nil, 0, err
	}

	comments, total, err := s.CommentRepo.FindAllByQuestion(question.ID, page, size)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CommentResponse, len(comments))
	for i, c := range comments {
		responses[i] = CommentResponse{
			CommentID: c.ID,
			NickName:  c.User.NickName,
			Comment:   c.Comment,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		}
	}
	return responses, total, nil
}

// GetUserComments 某用户的全部评论，带房间名和题目序号
func (s *CommentService) GetUserComments(userID uint, page, size int) ([]repository.CommentRoomRow, int64, error) {
	return s.CommentRepo.FindByUserWithContext(userID, page, size)
}

// UpdateComment 只有作者本人可以修改
func (s *CommentService) UpdateComment(commentID, userID uint, req CommentRequest) error {
	comment, err := s.CommentRepo.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return util.ErrPermissionDenied
	}
	if s.Filter.Check(req.Comment) {
		return util.ErrProfanityDetected
	}

	comment.Comment = req.Comment
	return s.CommentRepo.Update(comment)
}

// DeleteComment 只有作者本人可以删除
func (s *CommentService) DeleteComment(commentID, userID uint) error {
	comment, err := s.CommentRepo.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return util.ErrPermissionDenied
	}
	return s.CommentRepo.Delete(comment)
}

func (s *CommentService) resolveQuestion(roomID, questionID uint) (*model.Question, error) {
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
