package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"meeting-collab-backend/models"
)

const messageKeyPrefix = "message:"

// GetMessages 返回全部聊天消息，按时间正序（最早的在前）
func GetMessages(c *gin.Context) {
	values, err := store.GetByPrefix(c.Request.Context(), messageKeyPrefix)
	if err != nil {
		log.Printf("获取消息失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	messages := make([]models.Message, 0, len(values))
	for _, raw := range values {
		var msg models.Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			log.Printf("跳过无法解析的消息记录: %v", err)
			continue
		}
		messages = append(messages, msg)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessage 发送一条聊天消息
func SendMessage(c *gin.Context) {
	var input models.CreateMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := currentIdentity(c)
	userName := input.UserName
	if userName == "" {
		userName = identity.DisplayName()
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		UserID:    identity.ID,
		UserName:  userName,
		Content:   input.Content,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}
	if err := store.Set(c.Request.Context(), messageKeyPrefix+msg.ID, string(data)); err != nil {
		log.Printf("写入消息失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msg})
}
