package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DevCat-HGS/GestionDePagos/config"
	"github.com/DevCat-HGS/GestionDePagos/internal/middleware"
	"github.com/DevCat-HGS/GestionDePagos/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB conecta config.DB a una base SQLite en memoria, una por test.
func setupTestDB(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Payment{}, &models.Event{}))

	config.DB = db
	config.RDB = nil
	config.JwtKey = []byte("clave-de-prueba")
}

// newTestRouter registra las rutas de pagos y eventos con un middleware de
// autenticación sustituto que adjunta el usuario indicado, para probar los
// manejadores sin el plomo de los tokens.
func newTestRouter(userID uint, role string) *gin.Engine {
	r := gin.New()
	api := r.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_role", role)
		c.Next()
	})

	api.POST("/payments", CreatePaymentHandler)
	api.GET("/payments", ListPaymentsHandler)
	api.GET("/payments/weekly", GetWeeklyPaymentsHandler)
	api.GET("/payments/:id", GetPaymentHandler)
	api.PUT("/payments/:id", UpdatePaymentHandler)
	api.DELETE("/payments/:id", DeletePaymentHandler)

	api.POST("/events", CreateEventHandler)
	api.GET("/events", ListEventsHandler)
	api.GET("/events/:id", GetEventHandler)
	api.PUT("/events/:id", UpdateEventHandler)
	api.DELETE("/events/:id", DeleteEventHandler)
	api.POST("/events/:id/payments", AddPaymentToEventHandler)

	return r
}

// newAuthRouter registra un par de rutas detrás del middleware real, para
// probar la puerta de acceso de punta a punta.
func newAuthRouter() *gin.Engine {
	r := gin.New()
	api := r.Group("/api")
	api.POST("/users", RegisterUserHandler)
	api.POST("/users/login", LoginUserHandler)

	authRequired := api.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		authRequired.GET("/payments", ListPaymentsHandler)
		authRequired.GET("/users", middleware.AdminMiddleware(), ListUsersHandler)
		authRequired.PUT("/users/:id/approve", middleware.AdminMiddleware(), ApproveUserHandler)
	}
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func seedUser(t *testing.T, role, approvalStatus string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{
		Name:           "Usuario de Prueba",
		Email:          fmt.Sprintf("%s-%s@test.local", role, approvalStatus),
		Password:       string(hashed),
		Role:           role,
		IsActive:       true,
		IsApproved:     approvalStatus == models.ApprovalApproved,
		ApprovalStatus: approvalStatus,
	}
	require.NoError(t, config.DB.Create(&user).Error)
	return user
}

func seedEvent(t *testing.T, name string, targetAmount float64) models.Event {
	t.Helper()
	event := models.Event{
		Name:         name,
		StartDate:    time.Now().Add(-24 * time.Hour),
		EndDate:      time.Now().Add(24 * time.Hour),
		TargetAmount: targetAmount,
	}
	require.NoError(t, config.DB.Create(&event).Error)
	return event
}

func seedPayment(t *testing.T, amount float64, status string) models.Payment {
	t.Helper()
	payment := models.Payment{
		ClientName:    "Cliente de Prueba",
		ClientID:      "123456789",
		Amount:        amount,
		Date:          time.Now(),
		Status:        status,
		PaymentMethod: models.PaymentMethodCash,
	}
	require.NoError(t, config.DB.Create(&payment).Error)
	return payment
}

// linkPayment asocia un pago a un evento sin pasar por los manejadores y sin
// tocar el monto recaudado.
func linkPayment(t *testing.T, event *models.Event, payment *models.Payment) {
	t.Helper()
	require.NoError(t, config.DB.Model(event).Association("Payments").Append(payment))
}

func reloadEvent(t *testing.T, id uint) models.Event {
	t.Helper()
	var event models.Event
	require.NoError(t, config.DB.First(&event, id).Error)
	return event
}

// assertInvariant verifica que el monto recaudado de un evento coincide con
// la suma de sus pagos asociados en estado 'pagado', con piso en cero.
func assertInvariant(t *testing.T, eventID uint) {
	t.Helper()
	event := reloadEvent(t, eventID)

	var sum float64
	require.NoError(t, config.DB.Model(&models.Payment{}).
		Joins("JOIN event_payments ep ON ep.payment_id = payments.id").
		Where("ep.event_id = ? AND payments.status = ?", eventID, models.PaymentStatusPaid).
		Select("COALESCE(SUM(payments.amount), 0)").
		Scan(&sum).Error)
	if sum < 0 {
		sum = 0
	}
	require.Equal(t, sum, event.CurrentAmount, "el monto recaudado no coincide con la suma de pagos pagados")
}
