package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/gatherly/api/internal/helpers"
	"github.com/gatherly/api/internal/models"
)

type eventForm struct {
	Title         string
	Description   string
	Location      string
	StartDateTime time.Time
	EndDateTime   time.Time
	Price         float64
}

// parseEventForm validates the multipart event form. All text fields are
// required; start/end come from datetime-local inputs. Start/end ordering
// is deliberately not checked.
func parseEventForm(c *gin.Context) (*eventForm, string) {
	title := c.PostForm("title")
	description := c.PostForm("description")
	location := c.PostForm("location")

	if title == "" || description == "" || location == "" {
		return nil, "Missing required fields."
	}

	startDateTime, err := helpers.ParseLocalDateTime(c.PostForm("start_date_time"))
	if err != nil {
		return nil, "Invalid start date/time format."
	}
	endDateTime, err := helpers.ParseLocalDateTime(c.PostForm("end_date_time"))
	if err != nil {
		return nil, "Invalid end date/time format."
	}

	price, err := helpers.ParsePrice(c.PostForm("price"))
	if err != nil {
		return nil, "Invalid price."
	}

	return &eventForm{
		Title:         title,
		Description:   description,
		Location:      location,
		StartDateTime: startDateTime,
		EndDateTime:   endDateTime,
		Price:         price,
	}, ""
}

func CreateEvent(c *gin.Context) {
	form, errMsg := parseEventForm(c)
	if errMsg != "" {
		helpers.RespondWithError(c, http.StatusBadRequest, errMsg)
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	event := models.Event{
		Title:         form.Title,
		Description:   form.Description,
		Location:      form.Location,
		StartDateTime: form.StartDateTime,
		EndDateTime:   form.EndDateTime,
		Price:         form.Price,
	}

	imageFile, err := c.FormFile("image")
	if err == nil {
		imageURL, err := helpers.UploadFile(c, imageFile, "event_images")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		event.ImageURL = imageURL
	}

	if err := gormDB.Create(&event).Error; err != nil {
		log.Printf("Error creating event: %v", err)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

func ListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

	pageNum, err := helpers.StringToInt(page)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}

	limitNum, err := helpers.StringToInt(limit)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	query := gormDB.Model(&models.Event{})

	var totalCount int64
	query.Count(&totalCount)

	var events []models.Event
	offset := (pageNum - 1) * limitNum
	err = query.Offset(offset).Limit(limitNum).Order("start_date_time ASC").Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":      events,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

// GetEvent returns one event. When a viewer identity is attached it also
// reports whether the viewer is registered, and for staff the total
// registration count. The three lookups are independent.
func GetEvent(c *gin.Context) {
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

	response := gin.H{"event": event}

	if viewerID, ok := currentUserID(c); ok {
		registered, err := isRegistered(gormDB, event.ID, viewerID)
		if err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
			return
		}
		response["is_registered"] = registered
	}

	if currentRole(c) == models.RoleStaff {
		var registrationCount int64
		if err := gormDB.Model(&models.Registration{}).Where("event_id = ?", event.ID).Count(&registrationCount).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
			return
		}
		response["registration_count"] = registrationCount
	}

	c.JSON(http.StatusOK, response)
}

// UpdateEvent rewrites an event and then propagates the title to the
// denormalized copy on every registration referencing it. The per-record
// updates run concurrently; the handler waits for all of them and reports
// a single generic error if any fail, without rolling back the rest.
func UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")

	form, errMsg := parseEventForm(c)
	if errMsg != "" {
		helpers.RespondWithError(c, http.StatusBadRequest, errMsg)
		return
	}

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
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	event.Title = form.Title
	event.Description = form.Description
	event.Location = form.Location
	event.StartDateTime = form.StartDateTime
	event.EndDateTime = form.EndDateTime
	event.Price = form.Price

	imageFile, err := c.FormFile("image")
	if err == nil {
		oldImageURL := event.ImageURL

		imageURL, err := helpers.UploadFile(c, imageFile, "event_images")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		event.ImageURL = imageURL

		if oldImageURL != "" {
			if err := helpers.DeleteUploadedFile(oldImageURL); err != nil {
				log.Printf("Error deleting old event image: %v", err)
			}
		}
	}

	if err := gormDB.Save(&event).Error; err != nil {
		log.Printf("Error updating event %s: %v", eventID, err)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error updating event. Please try again.")
		return
	}

	var registrations []models.Registration
	if err := gormDB.Where("event_id = ?", event.ID).Find(&registrations).Error; err != nil {
		log.Printf("Error loading registrations for event %s: %v", eventID, err)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error updating event. Please try again.")
		return
	}

	g := new(errgroup.Group)
	for _, registration := range registrations {
		registrationID := registration.ID
		g.Go(func() error {
			return gormDB.Model(&models.Registration{}).
				Where("id = ?", registrationID).
				Update("event_title", event.Title).Error
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("Error propagating title for event %s: %v", eventID, err)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error updating event. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

// DeleteEvent removes every registration referencing the event, waits for
// the whole cascade, then removes the event itself. There is no
// compensation if the event delete fails after the cascade.
func DeleteEvent(c *gin.Context) {
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
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	var registrations []models.Registration
	if err := gormDB.Where("event_id = ?", event.ID).Find(&registrations).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error deleting event. Please try again.")
		return
	}

	g := new(errgroup.Group)
	for _, registration := range registrations {
		registrationID := registration.ID
		g.Go(func() error {
			return gormDB.Delete(&models.Registration{}, "id = ?", registrationID).Error
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("Error deleting registrations for event %s: %v", eventID, err)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error deleting event. Please try again.")
		return
	}

	if err := gormDB.Delete(&event).Error; err != nil {
		log.Printf("Error deleting event %s: %v", eventID, err)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error deleting event. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event deleted successfully.",
	})
}

// GetEventCalendarLink returns a Google Calendar deep link for the event.
// No state changes.
func GetEventCalendarLink(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"calendar_url": helpers.GoogleCalendarURL(
			event.Title,
			event.Description,
			event.Location,
			event.StartDateTime,
			event.EndDateTime,
		),
	})
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func currentRole(c *gin.Context) string {
	value, exists := c.Get("role")
	if !exists {
		return ""
	}
	role, _ := value.(string)
	return role
}

func isRegistered(db *gorm.DB, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.Registration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}
