package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/gatherly/api/internal/helpers"
	"github.com/gatherly/api/internal/models"
)

func registrationQRData(registration *models.Registration) string {
	secretKey := os.Getenv("JWT_SECRET")
	signature := registrationSignature(registration.ID, registration.EventID, registration.UserID, secretKey)
	return fmt.Sprintf("registration:%s;event:%s;signature:%s",
		registration.ID.String(),
		registration.EventID.String(),
		signature,
	)
}

func registrationSignature(registrationID, eventID, userID uuid.UUID, secretKey string) string {
	data := fmt.Sprintf("%s:%s:%s", registrationID.String(), eventID.String(), userID.String())
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func extractRegistrationIDFromQRData(qrData string) (uuid.UUID, error) {
	parts := strings.Split(qrData, ";")
	if len(parts) != 3 || !strings.HasPrefix(parts[0], "registration:") || !strings.HasPrefix(parts[2], "signature:") {
		return uuid.Nil, fmt.Errorf("invalid QR data format")
	}
	return uuid.Parse(strings.TrimPrefix(parts[0], "registration:"))
}

func validateRegistrationSignature(registration *models.Registration, qrData string) bool {
	parts := strings.Split(qrData, ";")
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "signature:") {
		return false
	}

	secretKey := os.Getenv("JWT_SECRET")
	signature := strings.TrimPrefix(parts[2], "signature:")
	expectedSignature := registrationSignature(registration.ID, registration.EventID, registration.UserID, secretKey)
	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}

// GenerateRegistrationQR renders a signed confirmation QR code for one of
// the caller's own registrations.
func GenerateRegistrationQR(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "You must be logged in to view your registrations.")
		return
	}

	registrationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid registration ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var registration models.Registration
	if err := gormDB.First(&registration, "id = ?", registrationID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Registration not found.")
		return
	}

	if registration.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this registration.")
		return
	}

	qrImage, err := qrcode.Encode(registrationQRData(&registration), qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

// VerifyRegistration lets staff check a scanned QR payload. Read-only:
// registrations are never mutated outside the title fan-out.
func VerifyRegistration(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var verificationRequest struct {
		QRData string `json:"qr_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&verificationRequest); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	registrationID, err := extractRegistrationIDFromQRData(verificationRequest.QRData)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid QR code format.")
		return
	}

	var registration models.Registration
	if err := gormDB.First(&registration, "id = ?", registrationID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Registration not found.")
		return
	}

	if !validateRegistrationSignature(&registration, verificationRequest.QRData) {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid QR code signature.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Registration verified successfully.",
		"registration": gin.H{
			"id":             registration.ID,
			"event_title":    registration.EventTitle,
			"payment_status": registration.PaymentStatus,
		},
	})
}
