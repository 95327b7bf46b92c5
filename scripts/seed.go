// 演示数据初始化脚本
//
// 建一个演示用户和一个公开自习室，并往里放几道不同难度的题目，
// 方便本地联调前端时不用从零开始。
//
// 用法: go run scripts/seed.go
package main

import (
	"eduwithme_backend/internal/config"
	"eduwithme_backend/internal/model"
	"eduwithme_backend/internal/repository"
	"eduwithme_backend/internal/service"
	"eduwithme_backend/internal/util"
	"eduwithme_backend/pkg/database"
	"eduwithme_backend/pkg/logger"
	"log"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, true)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	questionRepo := repository.NewQuestionRepository(db)

	existing, err := userRepo.FindByEmail("demo@eduwithme.com")
	if err != nil {
		log.Fatalf("查询演示用户失败: %v", err)
	}
	if existing != nil {
		log.Println("演示数据已存在，跳过")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("Demo1234!"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("生成密码失败: %v", err)
	}

	demoUser := &model.User{
		Email:    "demo@eduwithme.com",
		Password: string(hashed),
		NickName: "demo",
		Role:     model.RoleTeacher,
	}
	if err := userRepo.Create(demoUser); err != nil {
		log.Fatalf("创建演示用户失败: %v", err)
	}

	filter := util.NewBadWordFilter()
	roomService := service.NewRoomService(roomRepo, studentRepo, userRepo, filter)
	questionService := service.NewQuestionService(questionRepo, repository.NewLearningStatusRepository(db), roomService, filter)

	room, err := roomService.CreatePublicRoom(service.CreateRoomRequest{RoomName: "演示自习室"}, demoUser.ID)
	if err != nil {
		log.Fatalf("创建演示房间失败: %v", err)
	}

	seedQuestions := []service.QuestionRequest{
		{
			Title:      "2 + 2 等于几",
			Content:    "选出正确的结果。",
			Category:   model.CategoryMath,
			Difficulty: model.LevelOne,
			Answer:     service.AnswerRequest{First: "3", Second: "4", Third: "5", Fourth: "22", Answered: 2},
		},
		{
			Title:      "水的化学式",
			Content:    "下列哪个是水的化学式？",
			Category:   model.CategoryScience,
			Difficulty: model.LevelTwo,
			Answer:     service.AnswerRequest{First: "CO2", Second: "NaCl", Third: "H2O", Fourth: "O2", Answered: 3},
		},
		{
			Title:      "Go 的并发原语",
			Content:    "Go 语言内置的并发通信机制是？",
			Category:   model.CategoryCoding,
			Difficulty: model.LevelFour,
			Answer:     service.AnswerRequest{First: "channel", Second: "semaphore", Third: "signal", Fourth: "pipe", Answered: 1},
		},
	}

	for _, req := range seedQuestions {
		if _, err := questionService.CreateQuestion(room.RoomID, req); err != nil {
			log.Fatalf("创建演示题目失败: %v", err)
		}
	}

	log.Printf("演示数据初始化完成，房间ID=%d，账号 demo@eduwithme.com / Demo1234!", room.RoomID)
}
