package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"meeting-collab-backend/models"
	"meeting-collab-backend/service"
)

// GetPolls retrieves all polls with aggregated vote counts, newest first.
// No authentication required.
func GetPolls(c *gin.Context) {
	views, err := pollService.ListPolls(c.Request.Context())
	if err != nil {
		log.Printf("获取投票列表失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch polls"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"polls": views})
}

// CreatePoll handles the creation of a new poll
func CreatePoll(c *gin.Context) {
	var input models.CreatePollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := pollService.CreatePoll(c.Request.Context(), &input, currentIdentity(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuestion), errors.Is(err, service.ErrInvalidOptions):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("创建投票失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create poll"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"poll": view})
}

// SubmitVote handles a vote submission for a poll. The same user voting
// again overwrites the earlier vote rather than being rejected.
func SubmitVote(c *gin.Context) {
	pollID := c.Param("id")

	var input models.VoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vote, err := pollService.SubmitVote(c.Request.Context(), pollID, *input.OptionIndex, currentIdentity(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPollNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		case errors.Is(err, service.ErrInvalidOption):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid option index"})
		default:
			log.Printf("提交投票失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"vote": vote})
}
