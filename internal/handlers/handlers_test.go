package handlers

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gatherly/api/internal/middleware"
	"github.com/gatherly/api/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB opens an in-memory sqlite database with the full schema and
// seeded roles. The pool is capped at one connection so the fan-out
// goroutines serialize instead of racing the shared in-memory store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Role{}, &models.User{}, &models.Event{}, &models.Registration{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	for _, name := range []string{models.RoleStaff, models.RoleNonStaff} {
		if err := db.Create(&models.Role{Name: name}).Error; err != nil {
			t.Fatalf("seed role %s: %v", name, err)
		}
	}

	return db
}

func newTestRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	return r
}

// asUser stands in for the JWT middleware in handler tests.
func asUser(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email, roleName string) *models.User {
	t.Helper()

	var role models.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		t.Fatalf("load role %s: %v", roleName, err)
	}

	user := models.User{
		Email:            email,
		Password:         "not-a-real-hash",
		FullName:         "Test User",
		EventsRegistered: []string{},
		RoleID:           role.ID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return &user
}

func createTestEvent(t *testing.T, db *gorm.DB, title string, price float64) *models.Event {
	t.Helper()

	event := models.Event{
		Title:         title,
		Description:   "A test event",
		Location:      "HQ",
		StartDateTime: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		EndDateTime:   time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC),
		Price:         price,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("create event %s: %v", title, err)
	}
	return &event
}

func createTestRegistration(t *testing.T, db *gorm.DB, event *models.Event, userID uuid.UUID) *models.Registration {
	t.Helper()

	registration := models.Registration{
		EventID:          event.ID,
		UserID:           userID,
		EventTitle:       event.Title,
		RegistrationDate: time.Now().UTC(),
		PaymentStatus:    models.PaymentStatusCompleted,
	}
	if err := db.Create(&registration).Error; err != nil {
		t.Fatalf("create registration: %v", err)
	}
	return &registration
}

func countRegistrations(t *testing.T, db *gorm.DB, eventID, userID uuid.UUID) int64 {
	t.Helper()

	var count int64
	err := db.Model(&models.Registration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count registrations: %v", err)
	}
	return count
}
