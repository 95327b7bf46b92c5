package service

import (
	"errors"
	"strings"
	"testing"

	"eduwithme_backend/internal/model"
	"eduwithme_backend/internal/util"
)

type fakeRooms struct {
	rooms map[uint]*model.Room
}

func (f *fakeRooms) FindRoomByID(roomID uint) (*model.Room, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, util.ErrRoomNotFound
	}
	return room, nil
}

type fakeQuestions struct {
	questions map[uint]*model.Question
	nextID    uint
	creates   int
	updates   int
}

func newFakeQuestions() *fakeQuestions {
	return &fakeQuestions{questions: map[uint]*model.Question{}, nextID: 1}
}

func (f *fakeQuestions) CreateInRoom(question *model.Question) error {
	var maxOrder int64
	for _, q := range f.questions {
		if q.RoomID == question.RoomID && q.OrderInRoom > maxOrder {
			maxOrder = q.OrderInRoom
		}
	}
	question.ID = f.nextID
	question.OrderInRoom = maxOrder + 1
	if question.Answer != nil {
		question.Answer.QuestionID = question.ID
	}
	f.nextID++
	f.questions[question.ID] = question
	f.creates++
	return nil
}

func (f *fakeQuestions) FindByID(id uint) (*model.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, util.ErrQuestionNotFound
	}
	return q, nil
}

func (f *fakeQuestions) FindAllByRoom(roomID uint, page, size int) ([]model.Question, int64, error) {
	var result []model.Question
	for id := uint(1); id < f.nextID; id++ {
		if q, ok := f.questions[id]; ok && q.RoomID == roomID {
			result = append(result, *q)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeQuestions) SearchByTitle(roomID uint, keyword string, page, size int) ([]model.Question, error) {
	var result []model.Question
	for id := uint(1); id < f.nextID; id++ {
		q, ok := f.questions[id]
		if ok && q.RoomID == roomID && strings.Contains(strings.ToLower(q.Title), strings.ToLower(keyword)) {
			result = append(result, *q)
		}
	}
	return result, nil
}

func (f *fakeQuestions) Update(question *model.Question) error {
	f.questions[question.ID] = question
	f.updates++
	return nil
}

func (f *fakeQuestions) Delete(question *model.Question) error {
	delete(f.questions, question.ID)
	return nil
}

type statusKey struct {
	questionID uint
	userID     uint
}

type fakeStatuses struct {
	statuses map[statusKey]*model.LearningStatus
	users    map[uint]*model.User
	nextID   uint
	saves    int
}

func newFakeStatuses() *fakeStatuses {
	return &fakeStatuses{
		statuses: map[statusKey]*model.LearningStatus{},
		users:    map[uint]*model.User{},
		nextID:   1,
	}
}

func (f *fakeStatuses) FindByQuestionAndUser(questionID, userID uint) (*model.LearningStatus, error) {
	status, ok := f.statuses[statusKey{questionID, userID}]
	if !ok {
		return nil, nil
	}
	return status, nil
}

func (f *fakeStatuses) Save(status *model.LearningStatus) error {
	if status.ID == 0 {
		status.ID = f.nextID
		f.nextID++
	}
	f.statuses[statusKey{status.QuestionID, status.UserID}] = status
	f.saves++
	return nil
}

func (f *fakeStatuses) FindSolvedUsers(questionID uint) ([]model.User, error) {
	var users []model.User
	for key, status := range f.statuses {
		if key.questionID == questionID && status.QuestionType == model.QuestionSolve {
			if u, ok := f.users[key.userID]; ok {
				users = append(users, *u)
			} else {
				user := model.User{}
				user.ID = key.userID
				users = append(users, user)
			}
		}
	}
	return users, nil
}

func (f *fakeStatuses) TotalPointsByUserAndType(userID uint, questionType model.QuestionType) (int64, error) {
	return 0, nil
}

type fakeFilter struct {
	blocked []string
}

func (f *fakeFilter) Check(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range f.blocked {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func newTestService() (*QuestionService, *fakeQuestions, *fakeStatuses) {
	room := &model.Room{RoomName: "study room"}
	room.ID = 1
	other := &model.Room{RoomName: "other room"}
	other.ID = 2

	questions := newFakeQuestions()
	statuses := newFakeStatuses()
	svc := NewQuestionService(
		questions,
		statuses,
		&fakeRooms{rooms: map[uint]*model.Room{1: room, 2: other}},
		&fakeFilter{blocked: []string{"badword"}},
	)
	return svc, questions, statuses
}

func validRequest(title string, difficulty model.Difficulty, answered int) QuestionRequest {
	return QuestionRequest{
		Title:      title,
		Content:    "content of " + title,
		Category:   model.CategoryMath,
		Difficulty: difficulty,
		Answer: AnswerRequest{
			First:    "1",
			Second:   "2",
			Third:    "3",
			Fourth:   "4",
			Answered: answered,
		},
	}
}

func TestPointForDifficulty(t *testing.T) {
	tests := []struct {
		difficulty model.Difficulty
		want       int64
		wantErr    error
	}{
		{model.LevelOne, 10, nil},
		{model.LevelTwo, 20, nil},
		{model.LevelThree, 30, nil},
		{model.LevelFour, 40, nil},
		{model.LevelFive, 50, nil},
		{model.Difficulty("LEVEL_SIX"), 0, util.ErrInvalidDifficulty},
		{model.Difficulty(""), 0, util.ErrInvalidDifficulty},
	}

	for _, tt := range tests {
		got, err := PointForDifficulty(tt.difficulty)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("PointForDifficulty(%q) error = %v, want %v", tt.difficulty, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("PointForDifficulty(%q) = %d, want %d", tt.difficulty, got, tt.want)
		}
	}
}

func TestCreateQuestionAssignsSequentialOrder(t *testing.T) {
	svc, questions, _ := newTestService()

	for i, difficulty := range []model.Difficulty{model.LevelOne, model.LevelThree, model.LevelFive} {
		resp, err := svc.CreateQuestion(1, validRequest("q", difficulty, 1))
		if err != nil {
			t.Fatalf("CreateQuestion #%d: %v", i+1, err)
		}
		q := questions.questions[resp.QuestionID]
		if q.OrderInRoom != int64(i+1) {
			t.Errorf("question #%d OrderInRoom = %d, want %d", i+1, q.OrderInRoom, i+1)
		}
	}

	// 另一个房间从 1 开始计
	resp, err := svc.CreateQuestion(2, validRequest("q", model.LevelOne, 1))
	if err != nil {
		t.Fatalf("CreateQuestion in second room: %v", err)
	}
	if got := questions.questions[resp.QuestionID].OrderInRoom; got != 1 {
		t.Errorf("second room first question OrderInRoom = %d, want 1", got)
	}
}

func TestCreateQuestionDerivesPointFromDifficulty(t *testing.T) {
	svc, _, _ := newTestService()

	req := validRequest("q", model.LevelThree, 2)
	req.Point = 999 // 客户端传的分值被忽略

	resp, err := svc.CreateQuestion(1, req)
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}
	if resp.Point != 30 {
		t.Errorf("Point = %d, want 30", resp.Point)
	}
}

func TestCreateQuestionValidationPersistsNothing(t *testing.T) {
	tests := []struct {
		name    string
		roomID  uint
		mutate  func(*QuestionRequest)
		wantErr error
	}{
		{"unknown room", 99, func(r *QuestionRequest) {}, util.ErrRoomNotFound},
		{"profane title", 1, func(r *QuestionRequest) { r.Title = "a badword title" }, util.ErrProfanityDetected},
		{"profane content", 1, func(r *QuestionRequest) { r.Content = "badword" }, util.ErrProfanityDetected},
		{"profane choice", 1, func(r *QuestionRequest) { r.Answer.Third = "badword" }, util.ErrProfanityDetected},
		{"invalid difficulty", 1, func(r *QuestionRequest) { r.Difficulty = "IMPOSSIBLE" }, util.ErrInvalidDifficulty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, questions, _ := newTestService()

			req := validRequest("fine title", model.LevelOne, 1)
			tt.mutate(&req)

			if _, err := svc.CreateQuestion(tt.roomID, req); !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateQuestion error = %v, want %v", err, tt.wantErr)
			}
			if questions.creates != 0 {
				t.Errorf("creates = %d, want 0", questions.creates)
			}

			// 失败的创建不占用序号
			resp, err := svc.CreateQuestion(1, validRequest("after", model.LevelOne, 1))
			if err != nil {
				t.Fatalf("CreateQuestion after failure: %v", err)
			}
			if got := questions.questions[resp.QuestionID].OrderInRoom; got != 1 {
				t.Errorf("OrderInRoom after failed create = %d, want 1", got)
			}
		})
	}
}

func TestSubmitAnswerStateMachine(t *testing.T) {
	type step struct {
		selected   int
		wantOK     bool
		wantPoints int64
	}

	tests := []struct {
		name      string
		steps     []step
		wantType  model.QuestionType
		wantSaves int
	}{
		{
			name:      "fresh correct creates solve",
			steps:     []step{{2, true, 20}},
			wantType:  model.QuestionSolve,
			wantSaves: 1,
		},
		{
			name:      "fresh wrong creates wrong",
			steps:     []step{{1, false, 0}},
			wantType:  model.QuestionWrong,
			wantSaves: 1,
		},
		{
			name:      "wrong then correct transitions in place",
			steps:     []step{{3, false, 0}, {2, true, 20}},
			wantType:  model.QuestionSolve,
			wantSaves: 2,
		},
		{
			name:      "repeat correct does not write again",
			steps:     []step{{2, true, 20}, {2, true, 20}},
			wantType:  model.QuestionSolve,
			wantSaves: 1,
		},
		{
			name:      "repeat wrong does not write again",
			steps:     []step{{1, false, 0}, {4, false, 0}},
			wantType:  model.QuestionWrong,
			wantSaves: 1,
		},
		{
			name:      "wrong after solve does not regress",
			steps:     []step{{2, true, 20}, {1, false, 0}},
			wantType:  model.QuestionSolve,
			wantSaves: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, statuses := newTestService()

			resp, err := svc.CreateQuestion(1, validRequest("q", model.LevelTwo, 2))
			if err != nil {
				t.Fatalf("CreateQuestion: %v", err)
			}

			const userID = 7
			for i, step := range tt.steps {
				result, err := svc.SubmitAnswer(1, resp.QuestionID, userID, AnswerSubmission{SelectedAnswer: step.selected})
				if err != nil {
					t.Fatalf("SubmitAnswer step %d: %v", i+1, err)
				}
				if result.IsCorrect != step.wantOK {
					t.Errorf("step %d IsCorrect = %v, want %v", i+1, result.IsCorrect, step.wantOK)
				}
				if result.EarnedPoints != step.wantPoints {
					t.Errorf("step %d EarnedPoints = %d, want %d", i+1, result.EarnedPoints, step.wantPoints)
				}
			}

			if len(statuses.statuses) != 1 {
				t.Fatalf("status rows = %d, want 1", len(statuses.statuses))
			}
			status := statuses.statuses[statusKey{resp.QuestionID, userID}]
			if status == nil {
				t.Fatal("no status row for the submitting user")
			}
			if status.QuestionType != tt.wantType {
				t.Errorf("QuestionType = %s, want %s", status.QuestionType, tt.wantType)
			}
			if statuses.saves != tt.wantSaves {
				t.Errorf("saves = %d, want %d", statuses.saves, tt.wantSaves)
			}
		})
	}
}

func TestSubmitAnswerRoomMismatch(t *testing.T) {
	svc, _, statuses := newTestService()

	resp, err := svc.CreateQuestion(1, validRequest("q", model.LevelOne, 1))
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}

	_, err = svc.SubmitAnswer(2, resp.QuestionID, 7, AnswerSubmission{SelectedAnswer: 1})
	if !errors.Is(err, util.ErrRoomMismatch) {
		t.Fatalf("SubmitAnswer error = %v, want %v", err, util.ErrRoomMismatch)
	}
	if statuses.saves != 0 {
		t.Errorf("saves = %d, want 0", statuses.saves)
	}
}

// 题目缺答案记录时提交和编辑都要报 ErrAnswerNotFound，且不落任何写
func TestQuestionWithoutAnswerRecord(t *testing.T) {
	svc, questions, statuses := newTestService()

	resp, err := svc.CreateQuestion(1, validRequest("orphan", model.LevelOne, 1))
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}
	questions.questions[resp.QuestionID].Answer = nil
	updatesBefore := questions.updates

	_, err = svc.SubmitAnswer(1, resp.QuestionID, 7, AnswerSubmission{SelectedAnswer: 1})
	if !errors.Is(err, util.ErrAnswerNotFound) {
		t.Fatalf("SubmitAnswer error = %v, want %v", err, util.ErrAnswerNotFound)
	}
	if statuses.saves != 0 {
		t.Errorf("saves = %d, want 0", statuses.saves)
	}

	_, err = svc.UpdateQuestion(1, resp.QuestionID, validRequest("renamed", model.LevelTwo, 2))
	if !errors.Is(err, util.ErrAnswerNotFound) {
		t.Fatalf("UpdateQuestion error = %v, want %v", err, util.ErrAnswerNotFound)
	}
	if questions.updates != updatesBefore {
		t.Errorf("updates = %d, want %d", questions.updates, updatesBefore)
	}
}

func TestUpdateQuestionRejectsWithoutPersisting(t *testing.T) {
	svc, questions, _ := newTestService()

	resp, err := svc.CreateQuestion(1, validRequest("original", model.LevelOne, 1))
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}

	tests := []struct {
		name    string
		roomID  uint
		mutate  func(*QuestionRequest)
		wantErr error
	}{
		{"wrong room", 2, func(r *QuestionRequest) {}, util.ErrRoomMismatch},
		{"invalid difficulty", 1, func(r *QuestionRequest) { r.Difficulty = "NOPE" }, util.ErrInvalidDifficulty},
		{"profane title", 1, func(r *QuestionRequest) { r.Title = "badword" }, util.ErrProfanityDetected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest("changed", model.LevelFive, 3)
			tt.mutate(&req)

			if _, err := svc.UpdateQuestion(tt.roomID, resp.QuestionID, req); !errors.Is(err, tt.wantErr) {
				t.Fatalf("UpdateQuestion error = %v, want %v", err, tt.wantErr)
			}
			if questions.updates != 0 {
				t.Errorf("updates = %d, want 0", questions.updates)
			}
			if got := questions.questions[resp.QuestionID].Title; got != "original" {
				t.Errorf("Title = %q, want unchanged %q", got, "original")
			}
		})
	}
}

func TestUpdateQuestionReplacesAnswer(t *testing.T) {
	svc, questions, _ := newTestService()

	resp, err := svc.CreateQuestion(1, validRequest("original", model.LevelOne, 1))
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}

	req := validRequest("renamed", model.LevelFour, 4)
	updated, err := svc.UpdateQuestion(1, resp.QuestionID, req)
	if err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}

	if updated.Point != 40 {
		t.Errorf("Point = %d, want 40", updated.Point)
	}
	q := questions.questions[resp.QuestionID]
	if q.Answer.Answered != 4 {
		t.Errorf("Answered = %d, want 4", q.Answer.Answered)
	}
	if q.Title != "renamed" {
		t.Errorf("Title = %q, want %q", q.Title, "renamed")
	}
}

func TestSearchQuestionByTitle(t *testing.T) {
	svc, _, _ := newTestService()

	for _, title := range []string{"binary search", "linear search", "hash table"} {
		if _, err := svc.CreateQuestion(1, validRequest(title, model.LevelOne, 1)); err != nil {
			t.Fatalf("CreateQuestion %q: %v", title, err)
		}
	}

	results, err := svc.SearchQuestionByTitle(1, "search", 1, 10)
	if err != nil {
		t.Fatalf("SearchQuestionByTitle: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("results = %d, want 2", len(results))
	}

	if _, err := svc.SearchQuestionByTitle(1, "   ", 1, 10); !errors.Is(err, util.ErrKeywordNotFound) {
		t.Errorf("blank keyword error = %v, want %v", err, util.ErrKeywordNotFound)
	}
	if _, err := svc.SearchQuestionByTitle(1, "badword", 1, 10); !errors.Is(err, util.ErrProfanityDetected) {
		t.Errorf("profane keyword error = %v, want %v", err, util.ErrProfanityDetected)
	}
}

func TestGetQuestionDetailHidesAnswered(t *testing.T) {
	svc, _, _ := newTestService()

	req := validRequest("q", model.LevelTwo, 3)
	req.Answer.First = "alpha"
	req.Answer.Second = "beta"
	req.Answer.Third = "gamma"
	req.Answer.Fourth = "delta"

	resp, err := svc.CreateQuestion(1, req)
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}

	detail, err := svc.GetQuestionDetail(1, resp.QuestionID)
	if err != nil {
		t.Fatalf("GetQuestionDetail: %v", err)
	}

	want := []string{"alpha", "beta", "gamma", "delta"}
	if len(detail.Choices) != 4 {
		t.Fatalf("Choices = %d entries, want 4", len(detail.Choices))
	}
	for i, choice := range detail.Choices {
		if choice != want[i] {
			t.Errorf("Choices[%d] = %q, want %q", i, choice, want[i])
		}
	}
	if detail.OrderInRoom != 1 {
		t.Errorf("OrderInRoom = %d, want 1", detail.OrderInRoom)
	}
}

func TestGetSolvedStudentsListsEachUserOnce(t *testing.T) {
	svc, _, statuses := newTestService()

	resp, err := svc.CreateQuestion(1, validRequest("q", model.LevelOne, 1))
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}

	alice := &model.User{NickName: "alice"}
	alice.ID = 10
	bob := &model.User{NickName: "bob"}
	bob.ID = 11
	statuses.users[10] = alice
	statuses.users[11] = bob

	// alice 解出并重复提交，bob 只答错
	for _, selected := range []int{1, 1} {
		if _, err := svc.SubmitAnswer(1, resp.QuestionID, 10, AnswerSubmission{SelectedAnswer: selected}); err != nil {
			t.Fatalf("SubmitAnswer alice: %v", err)
		}
	}
	if _, err := svc.SubmitAnswer(1, resp.QuestionID, 11, AnswerSubmission{SelectedAnswer: 2}); err != nil {
		t.Fatalf("SubmitAnswer bob: %v", err)
	}

	solved, err := svc.GetSolvedStudents(1, resp.QuestionID)
	if err != nil {
		t.Fatalf("GetSolvedStudents: %v", err)
	}
	if len(solved) != 1 {
		t.Fatalf("solved = %d entries, want 1", len(solved))
	}
	if solved[0].UserID != 10 || solved[0].NickName != "alice" {
		t.Errorf("solved[0] = %+v, want alice (id 10)", solved[0])
	}
}
