package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"

	"meeting-collab-backend/auth"
	"meeting-collab-backend/kvstore"
	"meeting-collab-backend/service"
)

// Test tokens recognized by the static verifier.
const (
	aliceToken = "alice-token"
	bobToken   = "bob-token"
)

// SetupTestEnvironment wires the handlers against the in-memory store and a
// static verifier and returns the router plus the store for assertions.
func SetupTestEnvironment(t *testing.T) (*gin.Engine, kvstore.Store) {
	testing.Init()
	gin.SetMode(gin.TestMode)

	store := kvstore.NewMemoryStore()
	verifier := auth.NewStaticVerifier(map[string]auth.Identity{
		aliceToken: {ID: "user-alice", Email: "alice@example.com", Name: "Alice"},
		bobToken:   {ID: "user-bob", Email: "bob@example.com", Name: "Bob"},
	})

	InitHandlers(store, verifier, kvstore.NewLocalLocker(), service.NewPollService(store))

	// Setup routes (same shape as routes.SetupRouter, without rate limiting)
	router := gin.New()
	api := router.Group("/api")
	{
		api.GET("/health", HealthCheck)
		api.POST("/auth/signup", Signup)

		api.GET("/polls", GetPolls)
		api.POST("/polls", RequireAuth(), CreatePoll)
		api.POST("/polls/:id/vote", RequireAuth(), SubmitVote)

		api.GET("/messages", GetMessages)
		api.POST("/messages", RequireAuth(), SendMessage)

		api.GET("/tasks", GetTasks)
		api.POST("/tasks", RequireAuth(), CreateTask)
		api.PUT("/tasks/:id", UpdateTask)

		api.GET("/action-items", GetActionItems)
		api.POST("/action-items", RequireAuth(), CreateActionItem)
		api.PUT("/action-items/:id", UpdateActionItem)

		api.GET("/meetings", GetMeetings)
		api.POST("/meetings", RequireAuth(), CreateMeeting)
		api.POST("/meetings/:id/join", RequireAuth(), JoinMeeting)
	}

	return router, store
}
