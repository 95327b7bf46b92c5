package repository

import (
	"testing"

	"eduwithme_backend/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newStatusTestDB 内存 sqlite，只建 learning_statuses 表和
// (question_id, user_id) 唯一索引，够覆盖 upsert 路径。
func newStatusTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}

	ddl := []string{
		`CREATE TABLE learning_statuses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME,
			question_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			question_type TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_question_user ON learning_statuses(question_id, user_id)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("建表失败: %v", err)
		}
	}
	return db
}

func mustFindStatus(t *testing.T, repo *LearningStatusRepository, questionID, userID uint) *model.LearningStatus {
	t.Helper()
	status, err := repo.FindByQuestionAndUser(questionID, userID)
	if err != nil {
		t.Fatalf("查询学习状态失败: %v", err)
	}
	if status == nil {
		t.Fatalf("学习状态不存在: question=%d user=%d", questionID, userID)
	}
	return status
}

// 两个首次提交并发竞争：SOLVE 先落库后，晚到的 WRONG 插入
// 撞上唯一索引时必须是 no-op，终态不能被回退。
func TestSaveWrongDoesNotOverwriteSolve(t *testing.T) {
	repo := NewLearningStatusRepository(newStatusTestDB(t))

	solve := &model.LearningStatus{QuestionID: 1, UserID: 7, QuestionType: model.QuestionSolve}
	if err := repo.Save(solve); err != nil {
		t.Fatalf("写入 SOLVE 失败: %v", err)
	}

	// 另一请求同时走首次创建路径，ID 为零值
	wrong := &model.LearningStatus{QuestionID: 1, UserID: 7, QuestionType: model.QuestionWrong}
	if err := repo.Save(wrong); err != nil {
		t.Fatalf("写入 WRONG 失败: %v", err)
	}

	got := mustFindStatus(t, repo, 1, 7)
	if got.QuestionType != model.QuestionSolve {
		t.Fatalf("状态被回退为 %s, 期望保持 SOLVE", got.QuestionType)
	}

	var count int64
	if err := repo.DB.Model(&model.LearningStatus{}).Count(&count).Error; err != nil {
		t.Fatalf("统计记录数失败: %v", err)
	}
	if count != 1 {
		t.Fatalf("记录数 = %d, 期望 1", count)
	}
}

// 反方向竞争：WRONG 先落库，晚到的 SOLVE 插入要把状态推进到 SOLVE
func TestSaveSolveUpgradesExistingWrong(t *testing.T) {
	repo := NewLearningStatusRepository(newStatusTestDB(t))

	wrong := &model.LearningStatus{QuestionID: 3, UserID: 11, QuestionType: model.QuestionWrong}
	if err := repo.Save(wrong); err != nil {
		t.Fatalf("写入 WRONG 失败: %v", err)
	}

	solve := &model.LearningStatus{QuestionID: 3, UserID: 11, QuestionType: model.QuestionSolve}
	if err := repo.Save(solve); err != nil {
		t.Fatalf("写入 SOLVE 失败: %v", err)
	}

	got := mustFindStatus(t, repo, 3, 11)
	if got.QuestionType != model.QuestionSolve {
		t.Fatalf("状态 = %s, 期望 SOLVE", got.QuestionType)
	}
}

// 已有记录走更新路径（ID 非零）时是普通 Save
func TestSaveTransitionsLoadedRecord(t *testing.T) {
	repo := NewLearningStatusRepository(newStatusTestDB(t))

	wrong := &model.LearningStatus{QuestionID: 5, UserID: 2, QuestionType: model.QuestionWrong}
	if err := repo.Save(wrong); err != nil {
		t.Fatalf("写入 WRONG 失败: %v", err)
	}

	loaded := mustFindStatus(t, repo, 5, 2)
	loaded.QuestionType = model.QuestionSolve
	if err := repo.Save(loaded); err != nil {
		t.Fatalf("更新状态失败: %v", err)
	}

	got := mustFindStatus(t, repo, 5, 2)
	if got.QuestionType != model.QuestionSolve {
		t.Fatalf("状态 = %s, 期望 SOLVE", got.QuestionType)
	}
}

func TestFindByQuestionAndUserMissing(t *testing.T) {
	repo := NewLearningStatusRepository(newStatusTestDB(t))

	status, err := repo.FindByQuestionAndUser(99, 99)
	if err != nil {
		t.Fatalf("查询不存在的状态出错: %v", err)
	}
	if status != nil {
		t.Fatalf("期望 nil, 得到 %+v", status)
	}
}
