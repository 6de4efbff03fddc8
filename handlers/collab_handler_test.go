package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeting-collab-backend/models"
)

func TestMessages_SendAndListOldestFirst(t *testing.T) {
	router, _ := SetupTestEnvironment(t)

	w := doJSON(router, "POST", "/api/messages", aliceToken, gin.H{"content": "first"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, "POST", "/api/messages", bobToken, gin.H{"content": "second"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/messages", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "first", resp.Messages[0].Content)
	assert.Equal(t, "Alice", resp.Messages[0].UserName)
	assert.Equal(t, "second", resp.Messages[1].Content)
}

func TestMessages_Unauthorized(t *testing.T) {
	router, _ := SetupTestEnvironment(t)

	w := doJSON(router, "POST", "/api/messages", "", gin.H{"content": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTasks_CreateAndComplete(t *testing.T) {
	router, _ := SetupTestEnvironment(t)

	w := doJSON(router, "POST", "/api/tasks", aliceToken, gin.H{
		"title":         "Prepare slides",
		"assignee_name": "Bob",
		"due_date":      "2026-09-05",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Task models.Task `json:"task"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Prepare slides", created.Task.Title)
	assert.Equal(t, "medium", created.Task.Priority) // default
	assert.Equal(t, "manual", created.Task.Source)   // default
	assert.False(t, created.Task.Completed)
	assert.Equal(t, "user-alice", created.Task.CreatedBy)

	w = doJSON(router, "PUT", fmt.Sprintf("/api/tasks/%s", created.Task.ID), "", gin.H{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		Task models.Task `json:"task"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.True(t, updated.Task.Completed)
}

func TestTasks_UpdateNotFound(t *testing.T) {
	router, _ := SetupTestEnvironment(t)

	w := doJSON(router, "PUT", "/api/tasks/missing", "", gin.H{"completed": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestActionItems_CreateAndUpdateStatus(t *testing.T) {
	router, _ := SetupTestEnvironment(t)

	w := doJSON(router, "POST", "/api/action-items", aliceToken, gin.H{
		"task":           "Follow up with design team",
		"extracted_from": "transcript",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		ActionItem models.ActionItem `json:"actionItem"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "pending", created.ActionItem.Status)

	w = doJSON(router, "PUT", fmt.Sprintf("/api/action-items/%s", created.ActionItem.ID), "", gin.H{"status": "done"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		ActionItem models.ActionItem `json:"actionItem"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "done", updated.ActionItem.Status)
}

func TestMeetings_CreateAndJoin(t *testing.T) {
	router, _ := SetupTestEnvironment(t)

	w := doJSON(router, "POST", "/api/meetings", aliceToken, gin.H{"name": "Standup"})
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Meeting models.Meeting `json:"meeting"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.Meeting.ParticipantCount)
	assert.True(t, created.Meeting.IsActive)

	url := fmt.Sprintf("/api/meetings/%s/join", created.Meeting.ID)
	w = doJSON(router, "POST", url, bobToken, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)

	var joined struct {
		Meeting models.Meeting `json:"meeting"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &joined))
	assert.Equal(t, int64(2), joined.Meeting.ParticipantCount)
}

func TestMeetings_JoinWrongPassword(t *testing.T) {
	router, _ := SetupTestEnvironment(t)

	w := doJSON(router, "POST", "/api/meetings", aliceToken, gin.H{"name": "Private", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Meeting models.Meeting `json:"meeting"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	url := fmt.Sprintf("/api/meetings/%s/join", created.Meeting.ID)

	w = doJSON(router, "POST", url, bobToken, gin.H{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, "POST", url, bobToken, gin.H{"password": "s3cret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMeetings_JoinNotFound(t *testing.T) {
	router, _ := SetupTestEnvironment(t)

	w := doJSON(router, "POST", "/api/meetings/missing/join", bobToken, gin.H{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMeetings_ListActiveNewestFirst(t *testing.T) {
	router, _ := SetupTestEnvironment(t)

	w := doJSON(router, "POST", "/api/meetings", aliceToken, gin.H{"name": "One"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, "POST", "/api/meetings", aliceToken, gin.H{"name": "Two"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/meetings", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Meetings []models.Meeting `json:"meetings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Meetings, 2)
	assert.Equal(t, "Two", resp.Meetings[0].Name)
	assert.Equal(t, "One", resp.Meetings[1].Name)
}

func TestSignup(t *testing.T) {
	router, _ := SetupTestEnvironment(t)

	w := doJSON(router, "POST", "/api/auth/signup", "", gin.H{
		"email":    "carol@example.com",
		"password": "hunter2",
		"name":     "Carol",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "carol@example.com", resp.User.Email)
	assert.Equal(t, "Carol", resp.User.Name)
}

func TestSignup_InvalidEmail(t *testing.T) {
	router, _ := SetupTestEnvironment(t)

	w := doJSON(router, "POST", "/api/auth/signup", "", gin.H{
		"email":    "not-an-email",
		"password": "hunter2",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
