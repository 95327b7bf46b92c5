package app

import (
	"eduwithme_backend/docs"
	"eduwithme_backend/internal/config"
	"eduwithme_backend/internal/middleware"
	"eduwithme_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, s.auth))
	{
		a.registerAuthorizedRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	router.GET("/api/health", c.health.Health)

	auth := router.Group("/api/auth")
	{
		auth.POST("/signup/code", c.auth.SendSignupCode)
		auth.POST("/signup/verify", c.auth.VerifySignupCode)
		auth.POST("/signup", c.auth.Signup)
		auth.POST("/login", c.auth.Login)
		auth.POST("/reissue", c.auth.Reissue)
		auth.POST("/password/code", c.auth.RequestTempPassword)
		auth.POST("/password/reset", c.auth.ResetPassword)
		auth.GET("/nickname", c.auth.CheckNickname)
	}
}

func (a *App) registerAuthorizedRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/auth/logout", c.auth.Logout)
	rg.DELETE("/auth/withdraw", c.auth.Withdraw)

	// 个人资料
	rg.GET("/profile", c.profile.GetProfile)
	rg.PUT("/profile", c.profile.UpdateProfile)
	rg.PUT("/profile/password", c.profile.UpdatePassword)
	rg.POST("/profile/avatar", c.profile.UploadAvatar)

	// 房间
	rg.POST("/rooms/public", c.room.CreatePublicRoom)
	rg.POST("/rooms/private", c.room.CreatePrivateRoom)
	rg.GET("/rooms", c.room.GetRoomList)
	rg.GET("/rooms/mine", c.room.GetMyRooms)
	rg.GET("/rooms/:roomId", c.room.GetRoomDetail)
	rg.PUT("/rooms/:roomId", c.room.UpdateRoom)
	rg.DELETE("/rooms/:roomId", c.room.DeleteRoom)
	rg.POST("/rooms/:roomId/entry/public", c.room.EntryPublicRoom)
	rg.POST("/rooms/:roomId/entry/private", c.room.EntryPrivateRoom)
	rg.GET("/rooms/:roomId/users", c.room.GetRoomUsers)

	// 题目
	rg.POST("/rooms/:roomId/question", c.question.CreateQuestion)
	rg.GET("/rooms/:roomId/question", c.question.GetAllQuestion)
	rg.GET("/rooms/:roomId/question/:questionId", c.question.GetQuestion)
	rg.PUT("/rooms/:roomId/question/:questionId", c.question.UpdateQuestion)
	rg.DELETE("/rooms/:roomId/question/:questionId", c.question.DeleteQuestion)
	rg.POST("/rooms/:roomId/question/:questionId/submit", c.question.SubmitAnswer)
	rg.GET("/rooms/:roomId/question/:questionId/solved-students", c.question.GetSolvedStudents)
	rg.GET("/search/rooms/:roomId/question/title", c.question.SearchQuestionByTitle)

	// 评论
	rg.POST("/rooms/:roomId/question/:questionId/comments", c.comment.CreateComment)
	rg.GET("/rooms/:roomId/question/:questionId/comments", c.comment.GetComments)
	rg.PUT("/comments/:commentId", c.comment.UpdateComment)
	rg.DELETE("/comments/:commentId", c.comment.DeleteComment)

	// 用户维度查询
	rg.GET("/users/points", c.question.GetTotalPoints)
	rg.GET("/users/comments", c.comment.GetMyComments)
}
