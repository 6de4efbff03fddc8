package routes

import (
	"log"
	"net/http"
	"os"
	"time"

	"meeting-collab-backend/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server 是HTTP服务器的封装
type Server struct {
	*http.Server
}

// SetupRouter 设置和配置Gin路由
func SetupRouter() *gin.Engine {
	// 创建Gin路由器
	router := gin.Default()

	// 配置CORS中间件
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // 生产环境中应限制为前端域名
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 初始化限流器
	handlers.InitRateLimiters()

	// 定义API路由
	api := router.Group("/api")
	{
		// 全局API限流中间件
		api.Use(handlers.RateLimitMiddleware())

		// 健康检查
		api.GET("/health", handlers.HealthCheck)

		// 注册端点
		api.POST("/auth/signup", handlers.Signup)

		// 投票端点，列表公开，写操作需要认证
		polls := api.Group("/polls")
		{
			polls.GET("", handlers.GetPolls)
			polls.POST("", handlers.RequireAuth(), handlers.CreatePoll)
			polls.POST("/:id/vote", handlers.RequireAuth(), handlers.SubmitVote)
		}

		// 聊天消息端点
		messages := api.Group("/messages")
		{
			messages.GET("", handlers.GetMessages)
			messages.POST("", handlers.RequireAuth(), handlers.SendMessage)
		}

		// 任务端点
		tasks := api.Group("/tasks")
		{
			tasks.GET("", handlers.GetTasks)
			tasks.POST("", handlers.RequireAuth(), handlers.CreateTask)
			tasks.PUT("/:id", handlers.UpdateTask)
		}

		// 行动项端点
		actionItems := api.Group("/action-items")
		{
			actionItems.GET("", handlers.GetActionItems)
			actionItems.POST("", handlers.RequireAuth(), handlers.CreateActionItem)
			actionItems.PUT("/:id", handlers.UpdateActionItem)
		}

		// 会议端点
		meetings := api.Group("/meetings")
		{
			meetings.GET("", handlers.GetMeetings)
			meetings.POST("", handlers.RequireAuth(), handlers.CreateMeeting)
			meetings.POST("/:id/join", handlers.RequireAuth(), handlers.JoinMeeting)
		}
	}

	return router
}

// StartServer 启动HTTP服务器
func StartServer(router *gin.Engine) *Server {
	// 从环境变量获取端口，默认为8090
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8090" // 默认端口
	}

	addr := ":" + port

	srv := &Server{
		&http.Server{
			Addr:    addr,
			Handler: router,
		},
	}

	// 在单独的goroutine中启动服务器
	go func() {
		log.Printf("服务器启动在 %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	return srv
}
