package app

import (
	"context"
	"eduwithme_backend/internal/config"
	"eduwithme_backend/internal/controller"
	"eduwithme_backend/internal/repository"
	"eduwithme_backend/internal/service"
	"eduwithme_backend/internal/util"
	"eduwithme_backend/pkg/configwatcher"
	"eduwithme_backend/pkg/database"
	"eduwithme_backend/pkg/logger"
	"eduwithme_backend/pkg/monitoring"
	"eduwithme_backend/pkg/security"
	"eduwithme_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user           *repository.UserRepository
	room           *repository.RoomRepository
	student        *repository.StudentRepository
	question       *repository.QuestionRepository
	learningStatus *repository.LearningStatusRepository
	comment        *repository.CommentRepository
}

type services struct {
	auth     *service.AuthService
	room     *service.RoomService
	question *service.QuestionService
	profile  *service.ProfileService
	comment  *service.CommentService
	storage  *service.StorageService
	mail     *service.MailService
}

type controllers struct {
	auth     *controller.AuthController
	room     *controller.RoomController
	question *controller.QuestionController
	profile  *controller.ProfileController
	comment  *controller.CommentController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:           repository.NewUserRepository(db),
		room:           repository.NewRoomRepository(db),
		student:        repository.NewStudentRepository(db),
		question:       repository.NewQuestionRepository(db),
		learningStatus: repository.NewLearningStatusRepository(db),
		comment:        repository.NewCommentRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	filter := util.NewBadWordFilter()

	s.storage = service.NewStorageService(cfg)
	s.mail = service.NewMailService(&cfg.Mail)
	s.auth = service.NewAuthService(repos.user, repos.room, repos.student, repos.comment, s.mail, rdb, filter, cfg)
	s.room = service.NewRoomService(repos.room, repos.student, repos.user, filter)
	s.question = service.NewQuestionService(repos.question, repos.learningStatus, s.room, filter)
	s.profile = service.NewProfileService(repos.user, s.storage, filter)
	s.comment = service.NewCommentService(repos.comment, repos.question, s.room, filter)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		room:     controller.NewRoomController(s.room),
		question: controller.NewQuestionController(s.question),
		profile:  controller.NewProfileController(s.profile),
		comment:  controller.NewCommentController(s.comment),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("eduwithme-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, services, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 配置热更新：JWT 密钥、CORS 白名单等能在不重启的情况下生效
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		if c, ok := newCfg.(*config.Config); ok {
			*app.Config = *c
			logger.Log.Info("config reloaded")
		}
	})

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
