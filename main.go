package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meeting-collab-backend/auth"
	"meeting-collab-backend/handlers"
	"meeting-collab-backend/kvstore"
	"meeting-collab-backend/routes"
	"meeting-collab-backend/service"
)

func main() {
	// 初始化键值存储
	store, err := kvstore.InitStore()
	if err != nil {
		log.Fatalf("无法初始化键值存储: %v", err)
	}
	log.Println("键值存储初始化成功")

	// 初始化锁服务：Redis后端使用分布式锁，其余后端使用进程内锁
	var locker kvstore.Locker
	if redisStore, ok := store.(*kvstore.RedisStore); ok {
		locker = kvstore.NewRedsyncLocker(redisStore)
		log.Println("分布式锁初始化成功")
	} else {
		locker = kvstore.NewLocalLocker()
		log.Println("使用进程内锁")
	}

	// 初始化身份验证器
	verifier := auth.NewHTTPVerifier()
	log.Println("身份验证器初始化成功")

	// 初始化投票服务
	pollService := service.NewPollService(store)

	// 将依赖传递给处理程序
	handlers.InitHandlers(store, verifier, locker, pollService)

	// 设置路由
	router := routes.SetupRouter()
	log.Println("路由设置完成")

	// 启动服务器
	srv := routes.StartServer(router)
	log.Println("服务器启动成功")

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("关闭服务器...")

	// 创建一个5秒超时的上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 不接受新请求并等待现有请求完成
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务器强制关闭: %v", err)
	}

	// 关闭存储连接
	if err := store.Close(); err != nil {
		log.Printf("关闭存储连接错误: %v", err)
	}

	log.Println("服务器优雅关闭")
}
