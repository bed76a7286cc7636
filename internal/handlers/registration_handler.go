package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gatherly/api/internal/helpers"
	"github.com/gatherly/api/internal/models"
)

// RegisterForEvent signs the caller up for an event. Free events are
// registered immediately; paid events get a payment-required response
// pointing at the payment flow, and no registration is written here.
func RegisterForEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "You must be logged in to register for an event.")
		return
	}

	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	registered, err := isRegistered(gormDB, event.ID, userID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "An error occurred while registering for the event. Please try again.")
		return
	}
	if registered {
		helpers.RespondWithError(c, http.StatusConflict, "You are already registered for this event.")
		return
	}

	if !event.IsFree() {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"payment_required": true,
			"price":            event.Price,
			"currency":         "GBP",
			"message":          "This event requires payment to register.",
		})
		return
	}

	registration, err := createRegistration(gormDB, &event, userID)
	if err != nil {
		log.Printf("Error registering user %s for event %s: %v", userID, eventID, err)
		helpers.RespondWithError(c, http.StatusInternalServerError, "An error occurred while registering for the event. Please try again.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "You have registered for this event!",
		"registration": registration,
	})
}

// createRegistration writes the registration record and then appends the
// event id to the user's registered list. The two writes are sequential,
// not transactional: the append is idempotent and the unique index on
// (event_id, user_id) rejects a concurrent duplicate at the first write.
func createRegistration(db *gorm.DB, event *models.Event, userID uuid.UUID) (*models.Registration, error) {
	registration := models.Registration{
		EventID:          event.ID,
		UserID:           userID,
		EventTitle:       event.Title,
		RegistrationDate: time.Now().UTC(),
		PaymentStatus:    models.PaymentStatusCompleted,
	}
	if err := db.Create(&registration).Error; err != nil {
		return nil, err
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	if user.AddRegisteredEvent(event.ID.String()) {
		if err := db.Save(&user).Error; err != nil {
			return nil, err
		}
	}

	return &registration, nil
}
