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

const meetingKeyPrefix = "meeting:"

// 加入会议时participant_count更新的锁超时时间
const joinLockExpiry = 5 * time.Second

// errIncorrectPassword 会议密码错误
var errIncorrectPassword = errors.New("incorrect meeting password")

// GetMeetings 返回所有进行中的会议，最新的在前
func GetMeetings(c *gin.Context) {
	values, err := store.GetByPrefix(c.Request.Context(), meetingKeyPrefix)
	if err != nil {
		log.Printf("获取会议失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch meetings"})
		return
	}

	meetings := make([]models.Meeting, 0, len(values))
	for _, raw := range values {
		var meeting models.Meeting
		if err := json.Unmarshal([]byte(raw), &meeting); err != nil {
			log.Printf("跳过无法解析的会议记录: %v", err)
			continue
		}
		if !meeting.IsActive {
			continue
		}
		meetings = append(meetings, meeting)
	}

	sort.SliceStable(meetings, func(i, j int) bool {
		return meetings[i].CreatedAt.After(meetings[j].CreatedAt)
	})

	c.JSON(http.StatusOK, gin.H{"meetings": meetings})
}

// CreateMeeting 创建会议房间
func CreateMeeting(c *gin.Context) {
	var input models.CreateMeetingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := currentIdentity(c)
	meeting := models.Meeting{
		ID:               uuid.NewString(),
		Name:             input.Name,
		Password:         input.Password,
		CreatorID:        identity.ID,
		CreatorName:      identity.DisplayName(),
		ParticipantCount: 1,
		IsActive:         true,
		CreatedAt:        time.Now().UTC(),
	}

	data, err := json.Marshal(meeting)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create meeting"})
		return
	}
	if err := store.Set(c.Request.Context(), meetingKeyPrefix+meeting.ID, string(data)); err != nil {
		log.Printf("写入会议失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create meeting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meeting": meeting})
}

// JoinMeeting 加入会议。participant_count的更新是读-改-写，
// 在锁内执行防止并发加入丢失计数。
func JoinMeeting(c *gin.Context) {
	meetingID := c.Param("id")

	var input models.JoinMeetingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var meeting models.Meeting
	joinErr := locker.WithLock("meeting:"+meetingID, joinLockExpiry, func() error {
		raw, err := store.Get(c.Request.Context(), meetingKeyPrefix+meetingID)
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(raw), &meeting); err != nil {
			return err
		}

		// 会议设有密码时校验
		if meeting.Password != "" && meeting.Password != input.Password {
			return errIncorrectPassword
		}

		meeting.ParticipantCount++
		data, err := json.Marshal(meeting)
		if err != nil {
			return err
		}
		return store.Set(c.Request.Context(), meetingKeyPrefix+meetingID, string(data))
	})

	switch {
	case joinErr == nil:
		c.JSON(http.StatusOK, gin.H{"meeting": meeting})
	case errors.Is(joinErr, kvstore.ErrKeyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
	case errors.Is(joinErr, errIncorrectPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password"})
	default:
		log.Printf("加入会议失败: %v", joinErr)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join meeting"})
	}
}
