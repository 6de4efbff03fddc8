package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"meeting-collab-backend/auth"
	"meeting-collab-backend/models"
)

// Signup 代理身份服务创建用户，注册本身不需要已有令牌
func Signup(c *gin.Context) {
	var input models.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, err := verifier.Signup(c.Request.Context(), input.Email, input.Password, input.Name)
	if err != nil {
		if errors.Is(err, auth.ErrSignupFailed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("注册失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during signup"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": identity})
}
