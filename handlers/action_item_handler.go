package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"meeting-collab-backend/kvstore"
	"meeting-collab-backend/models"
)

const actionKeyPrefix = "action:"

// GetActionItems 返回全部行动项，最新的在前
func GetActionItems(c *gin.Context) {
	values, err := store.GetByPrefix(c.Request.Context(), actionKeyPrefix)
	if err != nil {
		log.Printf("获取行动项失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch action items"})
		return
	}

	items := make([]models.ActionItem, 0, len(values))
	for _, raw := range values {
		var item models.ActionItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			log.Printf("跳过无法解析的行动项记录: %v", err)
			continue
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	c.JSON(http.StatusOK, gin.H{"actionItems": items})
}

// CreateActionItem 创建行动项
func CreateActionItem(c *gin.Context) {
	var input models.CreateActionItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}

	item := models.ActionItem{
		ID:            uuid.NewString(),
		Task:          input.Task,
		AssigneeName:  input.AssigneeName,
		DueDate:       input.DueDate,
		Priority:      priority,
		Status:        "pending",
		ExtractedFrom: input.ExtractedFrom,
		CreatedBy:     currentIdentity(c).ID,
		CreatedAt:     time.Now().UTC(),
	}

	data, err := json.Marshal(item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create action item"})
		return
	}
	if err := store.Set(c.Request.Context(), actionKeyPrefix+item.ID, string(data)); err != nil {
		log.Printf("写入行动项失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create action item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"actionItem": item})
}

// UpdateActionItem 更新行动项状态
func UpdateActionItem(c *gin.Context) {
	itemID := c.Param("id")

	var input models.UpdateActionItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw, err := store.Get(c.Request.Context(), actionKeyPrefix+itemID)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Action item not found"})
		return
	}
	if err != nil {
		log.Printf("读取行动项失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update action item"})
		return
	}

	var item models.ActionItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update action item"})
		return
	}

	item.Status = input.Status

	data, err := json.Marshal(item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update action item"})
		return
	}
	if err := store.Set(c.Request.Context(), actionKeyPrefix+itemID, string(data)); err != nil {
		log.Printf("写入行动项失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update action item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"actionItem": item})
}
