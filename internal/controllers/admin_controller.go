package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"astegni_backend/internal/config"
	"astegni_backend/internal/models"
)

// ListAccounts returns every account with its derived roles. Admin only.
func ListAccounts(c *gin.Context) {
	var users []models.User
	if err := config.DB.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing accounts: " + err.Error()})
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		responseUser, err := prepareUserResponse(u)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build response"})
			return
		}
		out = append(out, responseUser)
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}
