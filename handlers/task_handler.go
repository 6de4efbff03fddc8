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

const taskKeyPrefix = "task:"

// GetTasks 返回全部任务，最新的在前
func GetTasks(c *gin.Context) {
	values, err := store.GetByPrefix(c.Request.Context(), taskKeyPrefix)
	if err != nil {
		log.Printf("获取任务失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	tasks := make([]models.Task, 0, len(values))
	for _, raw := range values {
		var task models.Task
		if err := json.Unmarshal([]byte(raw), &task); err != nil {
			log.Printf("跳过无法解析的任务记录: %v", err)
			continue
		}
		tasks = append(tasks, task)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CreateTask 创建任务
func CreateTask(c *gin.Context) {
	var input models.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}
	source := input.Source
	if source == "" {
		source = "manual"
	}

	task := models.Task{
		ID:           uuid.NewString(),
		Title:        input.Title,
		AssigneeName: input.AssigneeName,
		DueDate:      input.DueDate,
		Priority:     priority,
		Completed:    false,
		Source:       source,
		CreatedBy:    currentIdentity(c).ID,
		CreatedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}
	if err := store.Set(c.Request.Context(), taskKeyPrefix+task.ID, string(data)); err != nil {
		log.Printf("写入任务失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// UpdateTask 更新任务完成状态
func UpdateTask(c *gin.Context) {
	taskID := c.Param("id")

	var input models.UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw, err := store.Get(c.Request.Context(), taskKeyPrefix+taskID)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		log.Printf("读取任务失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	var task models.Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	task.Completed = *input.Completed

	data, err := json.Marshal(task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}
	if err := store.Set(c.Request.Context(), taskKeyPrefix+taskID, string(data)); err != nil {
		log.Printf("写入任务失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}
