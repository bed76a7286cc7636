package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gatherly/api/internal/helpers"
	"github.com/gatherly/api/internal/middleware"
	"github.com/gatherly/api/internal/models"
)

const paymentCurrency = "GBP"

// CreatePaymentOrder opens a payment order for a paid event. The caller
// approves the order with the provider and then hits the capture endpoint.
func CreatePaymentOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "You must be logged in to pay for an event.")
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
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error fetching event details.")
		return
	}

	if event.IsFree() {
		helpers.RespondWithError(c, http.StatusBadRequest, "This event is free. Use the standard registration instead.")
		return
	}

	registered, err := isRegistered(gormDB, event.ID, userID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error fetching event details.")
		return
	}
	if registered {
		helpers.RespondWithError(c, http.StatusConflict, "You are already registered for this event.")
		return
	}

	provider := middleware.GetPaymentProvider(c)
	if provider == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment provider not configured.")
		return
	}

	order, err := provider.CreateOrder(
		c.Request.Context(),
		fmt.Sprintf("%.2f", event.Price),
		paymentCurrency,
		event.Title,
	)
	if err != nil {
		log.Printf("Error creating payment order for event %s: %v", eventID, err)
		helpers.RespondWithError(c, http.StatusBadGateway, "Failed to create payment order. Please try again.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

// CapturePaymentOrder captures an approved order and writes the
// registration. The registration existence check runs fresh after capture
// so a viewer who reached the payment flow twice is not registered twice.
// A write failure after a successful capture is surfaced as its own
// support-facing message, never retried silently.
func CapturePaymentOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "You must be logged in to pay for an event.")
		return
	}

	eventID := c.Param("id")
	orderID := c.Param("orderId")

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
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error fetching event details.")
		return
	}

	provider := middleware.GetPaymentProvider(c)
	if provider == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment provider not configured.")
		return
	}

	capture, err := provider.CaptureOrder(c.Request.Context(), orderID)
	if err != nil {
		log.Printf("Payment capture failed for order %s: %v", orderID, err)
		helpers.RespondWithError(c, http.StatusBadGateway, "Payment failed. Please try again.")
		return
	}

	registered, err := isRegistered(gormDB, event.ID, userID)
	if err != nil {
		log.Printf("Error saving registration after capture %s: %v", capture.OrderID, err)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment successful but failed to save registration. Please contact support.")
		return
	}
	if registered {
		helpers.RespondWithError(c, http.StatusConflict, "You are already registered for this event.")
		return
	}

	registration, err := createRegistration(gormDB, &event, userID)
	if err != nil {
		log.Printf("Error saving registration after capture %s: %v", capture.OrderID, err)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment successful but failed to save registration. Please contact support.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Payment successful! You are now registered for the event.",
		"capture":      capture,
		"registration": registration,
	})
}
