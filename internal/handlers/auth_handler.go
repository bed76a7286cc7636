package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gatherly/api/internal/helpers"
	"github.com/gatherly/api/internal/models"
)

type RegisterRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new account. Validation runs in a fixed order and
// nothing is written until every check passes. New accounts always get the
// non-staff role; elevation happens out of band.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if req.Password != req.ConfirmPassword {
		helpers.RespondWithError(c, http.StatusBadRequest, "Passwords do not match.")
		return
	}

	if !helpers.IsValidEmail(req.Email) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid email.")
		return
	}

	if !helpers.IsStrongPassword(req.Password) {
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.PasswordPolicyMessage)
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var existingUser models.User
	if result := gormDB.Where("email = ?", req.Email).First(&existingUser); result.Error == nil {
		helpers.RespondWithError(c, http.StatusConflict, "Email is already registered. Please log in.")
		return
	}

	var role models.Role
	if err := gormDB.Where("name = ?", models.RoleNonStaff).First(&role).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "An error occurred. Please try again.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "An error occurred. Please try again.")
		return
	}

	user := models.User{
		Email:            req.Email,
		Password:         string(hashedPassword),
		FullName:         req.FullName,
		EventsRegistered: []string{},
		RoleID:           role.ID,
	}

	if err := gormDB.Create(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "An error occurred. Please try again.")
		return
	}

	tokenString, err := generateToken(&user, role.Name)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": tokenString,
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
			"role":      role.Name,
		},
	})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	if err := gormDB.Preload("Role").Where("email = ?", req.Email).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	tokenString, err := generateToken(&user, user.Role.Name)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
			"role":      user.Role.Name,
		},
	})
}

func generateToken(user *models.User, roleName string) (string, error) {
	secret := os.Getenv("JWT_SECRET")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    roleName,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})

	return token.SignedString([]byte(secret))
}
