package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gatherly/api/internal/helpers"
	"github.com/gatherly/api/internal/models"
)

func GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "You must be logged in to view your profile.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	if err := gormDB.Preload("Role").Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving user.")
		return
	}

	var registrations []models.Registration
	if err := gormDB.Where("user_id = ?", userID).Find(&registrations).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving registrations.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"registrations": registrations,
	})
}
