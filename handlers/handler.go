package handlers

import (
	"log"

	"meeting-collab-backend/auth"
	"meeting-collab-backend/kvstore"
	"meeting-collab-backend/service"
)

// 全局依赖引用，路由设置前由main注入
var (
	store       kvstore.Store
	verifier    auth.Verifier
	locker      kvstore.Locker
	pollService service.PollService
)

// InitHandlers 初始化处理程序依赖
func InitHandlers(s kvstore.Store, v auth.Verifier, l kvstore.Locker, ps service.PollService) {
	store = s
	verifier = v
	locker = l
	pollService = ps
	log.Println("处理程序依赖初始化完成")
}
