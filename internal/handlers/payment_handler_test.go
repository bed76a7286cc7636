package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gatherly/api/internal/middleware"
	"github.com/gatherly/api/internal/models"
	"github.com/gatherly/api/internal/payments"
)

type fakeProvider struct {
	createErr     error
	captureErr    error
	createdOrders []string
	captured      []string
}

func (f *fakeProvider) CreateOrder(ctx context.Context, value, currency, description string) (*payments.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdOrders = append(f.createdOrders, value)
	return &payments.Order{ID: "ORDER-1", Status: "CREATED", ApprovalURL: "https://example.com/approve"}, nil
}

func (f *fakeProvider) CaptureOrder(ctx context.Context, orderID string) (*payments.Capture, error) {
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	f.captured = append(f.captured, orderID)
	return &payments.Capture{OrderID: orderID, Status: "COMPLETED"}, nil
}

func newPaymentRouter(db *gorm.DB, provider payments.Provider, user *models.User) *gin.Engine {
	r := newTestRouter(db)
	r.Use(middleware.PaymentMiddleware(provider))
	r.POST("/v1/events/:id/payment/orders", asUser(user.ID, models.RoleNonStaff), CreatePaymentOrder)
	r.POST("/v1/events/:id/payment/orders/:orderId/capture", asUser(user.ID, models.RoleNonStaff), CapturePaymentOrder)
	return r
}

func TestCreatePaymentOrder(t *testing.T) {
	db := setupTestDB(t)
	event := createTestEvent(t, db, "Gala Dinner", 25.5)
	guest := createTestUser(t, db, "guest@example.com", models.RoleNonStaff)
	provider := &fakeProvider{}

	r := newPaymentRouter(db, provider, guest)

	w := post(t, r, "/v1/events/"+event.ID.String()+"/payment/orders")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	if len(provider.createdOrders) != 1 {
		t.Fatalf("orders created = %d, want 1", len(provider.createdOrders))
	}
	if provider.createdOrders[0] != "25.50" {
		t.Errorf("order amount = %q, want two-decimal %q", provider.createdOrders[0], "25.50")
	}
	if !strings.Contains(w.Body.String(), "ORDER-1") {
		t.Errorf("body = %s, want order id", w.Body.String())
	}
}

func TestCreatePaymentOrderRejectsFreeEvent(t *testing.T) {
	db := setupTestDB(t)
	event := createTestEvent(t, db, "Free Meetup", 0)
	guest := createTestUser(t, db, "guest@example.com", models.RoleNonStaff)
	provider := &fakeProvider{}

	r := newPaymentRouter(db, provider, guest)

	w := post(t, r, "/v1/events/"+event.ID.String()+"/payment/orders")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if len(provider.createdOrders) != 0 {
		t.Errorf("orders created = %d, want 0", len(provider.createdOrders))
	}
}

func TestCreatePaymentOrderAlreadyRegistered(t *testing.T) {
	db := setupTestDB(t)
	event := createTestEvent(t, db, "Gala Dinner", 25.5)
	guest := createTestUser(t, db, "guest@example.com", models.RoleNonStaff)
	createTestRegistration(t, db, event, guest.ID)
	provider := &fakeProvider{}

	r := newPaymentRouter(db, provider, guest)

	w := post(t, r, "/v1/events/"+event.ID.String()+"/payment/orders")
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	if len(provider.createdOrders) != 0 {
		t.Errorf("orders created = %d, want 0", len(provider.createdOrders))
	}
}

func TestCapturePaymentOrderRegisters(t *testing.T) {
	db := setupTestDB(t)
	event := createTestEvent(t, db, "Gala Dinner", 25.5)
	guest := createTestUser(t, db, "guest@example.com", models.RoleNonStaff)
	provider := &fakeProvider{}

	r := newPaymentRouter(db, provider, guest)

	w := post(t, r, "/v1/events/"+event.ID.String()+"/payment/orders/ORDER-1/capture")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	if got := countRegistrations(t, db, event.ID, guest.ID); got != 1 {
		t.Errorf("registration count = %d, want 1", got)
	}

	var user models.User
	if err := db.First(&user, "id = ?", guest.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if len(user.EventsRegistered) != 1 || user.EventsRegistered[0] != event.ID.String() {
		t.Errorf("events registered = %v, want [%s]", user.EventsRegistered, event.ID)
	}
}

// A viewer who reached the payment flow twice must not end up with two
// registrations: the existence check runs fresh after capture.
func TestCapturePaymentOrderAlreadyRegistered(t *testing.T) {
	db := setupTestDB(t)
	event := createTestEvent(t, db, "Gala Dinner", 25.5)
	guest := createTestUser(t, db, "guest@example.com", models.RoleNonStaff)
	createTestRegistration(t, db, event, guest.ID)
	provider := &fakeProvider{}

	r := newPaymentRouter(db, provider, guest)

	w := post(t, r, "/v1/events/"+event.ID.String()+"/payment/orders/ORDER-1/capture")
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	if !strings.Contains(w.Body.String(), "You are already registered for this event.") {
		t.Errorf("body = %s, want already-registered message", w.Body.String())
	}

	if got := countRegistrations(t, db, event.ID, guest.ID); got != 1 {
		t.Errorf("registration count = %d, want 1 (no duplicate writes)", got)
	}
}

func TestCapturePaymentOrderFailure(t *testing.T) {
	db := setupTestDB(t)
	event := createTestEvent(t, db, "Gala Dinner", 25.5)
	guest := createTestUser(t, db, "guest@example.com", models.RoleNonStaff)
	provider := &fakeProvider{captureErr: errors.New("declined")}

	r := newPaymentRouter(db, provider, guest)

	w := post(t, r, "/v1/events/"+event.ID.String()+"/payment/orders/ORDER-1/capture")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}
	if !strings.Contains(w.Body.String(), "Payment failed. Please try again.") {
		t.Errorf("body = %s, want payment-failed message", w.Body.String())
	}

	if got := countRegistrations(t, db, event.ID, guest.ID); got != 0 {
		t.Errorf("registration count = %d, want 0 after failed capture", got)
	}
}
