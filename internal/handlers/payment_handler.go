// GestionDePagos/internal/handlers/payment_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/DevCat-HGS/GestionDePagos/config"
	"github.com/DevCat-HGS/GestionDePagos/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreatePaymentRequest define la estructura para registrar un pago.
type CreatePaymentRequest struct {
	ClientName    string  `json:"clientName" binding:"required"`
	ClientID      string  `json:"clientId" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"paymentMethod"`
	Notes         string  `json:"notes"`
	EventID       uint    `json:"eventId"`
}

// UpdatePaymentRequest define la estructura para actualizar un pago.
// Los campos vacíos conservan el valor anterior.
type UpdatePaymentRequest struct {
	ClientName    string  `json:"clientName"`
	ClientID      string  `json:"clientId"`
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"paymentMethod"`
	Notes         string  `json:"notes"`
	EventID       uint    `json:"eventId"`
}

// CreatePaymentHandler registra un nuevo pago. Si se indica un evento y el
// pago llega en estado 'pagado', el pago queda asociado al evento y su monto
// se suma al recaudado.
func CreatePaymentHandler(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de pago inválidos: " + err.Error()})
		return
	}
	if req.Amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El monto no puede ser negativo"})
		return
	}
	if req.Status != "" && !isValidPaymentStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado de pago inválido"})
		return
	}
	if req.PaymentMethod != "" && !isValidPaymentMethod(req.PaymentMethod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Método de pago inválido"})
		return
	}

	payment := models.Payment{
		ClientName:    req.ClientName,
		ClientID:      req.ClientID,
		Amount:        req.Amount,
		Date:          time.Now(),
		Status:        models.PaymentStatusPending,
		PaymentMethod: models.PaymentMethodCash,
		Notes:         req.Notes,
		CreatedByID:   currentUserID(c),
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de fecha inválido. Use YYYY-MM-DD."})
			return
		}
		payment.Date = date
	}
	if req.Status != "" {
		payment.Status = req.Status
	}
	if req.PaymentMethod != "" {
		payment.PaymentMethod = req.PaymentMethod
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo iniciar la transacción"})
		return
	}

	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// La asociación en la creación solo aplica a pagos ya realizados: un pago
	// pendiente o cancelado se registra suelto aunque llegue con eventId.
	if req.EventID != 0 && payment.Status == models.PaymentStatusPaid {
		var event models.Event
		err := tx.First(&event, req.EventID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// El evento no existe: el pago queda registrado sin asociar.
		case err != nil:
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		default:
			if err := tx.Model(&event).Association("Payments").Append(&payment); err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			event.CurrentAmount += payment.Amount
			if err := tx.Save(&event).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo confirmar la transacción"})
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// ListPaymentsHandler devuelve los pagos con filtros opcionales por estado,
// cliente, rango de fechas y semana.
func ListPaymentsHandler(c *gin.Context) {
	query := config.DB.Model(&models.Payment{}).Preload("CreatedBy")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if clientName := c.Query("clientName"); clientName != "" {
		query = query.Where("client_name LIKE ?", "%"+clientName+"%")
	}
	if clientID := c.Query("clientId"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if startDate, endDate := c.Query("startDate"), c.Query("endDate"); startDate != "" && endDate != "" {
		start, err1 := parseDate(startDate)
		end, err2 := parseDate(endDate)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de fecha inválido. Use YYYY-MM-DD."})
			return
		}
		query = query.Where("date BETWEEN ? AND ?", start, end)
	}
	if weekNumber, year := c.Query("weekNumber"), c.Query("year"); weekNumber != "" && year != "" {
		week, _ := strconv.Atoi(weekNumber)
		yr, _ := strconv.Atoi(year)
		query = query.Where("week_number = ? AND year = ?", week, yr)
	}

	var payments []models.Payment
	if err := query.Order("date DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, payments)
}

// GetPaymentHandler devuelve un pago por su ID.
func GetPaymentHandler(c *gin.Context) {
	var payment models.Payment
	if err := config.DB.Preload("CreatedBy").First(&payment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pago no encontrado"})
		return
	}
	c.JSON(http.StatusOK, payment)
}

// UpdatePaymentHandler actualiza un pago y ajusta el monto recaudado de
// todos los eventos que lo referencian según el cambio de estado o de monto.
func UpdatePaymentHandler(c *gin.Context) {
	var payment models.Payment
	if err := config.DB.First(&payment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pago no encontrado"})
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de pago inválidos: " + err.Error()})
		return
	}
	if req.Status != "" && !isValidPaymentStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado de pago inválido"})
		return
	}
	if req.PaymentMethod != "" && !isValidPaymentMethod(req.PaymentMethod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Método de pago inválido"})
		return
	}
	if req.Amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El monto no puede ser negativo"})
		return
	}

	// Guardamos el estado y el monto anteriores; la conciliación se decide
	// comparando contra estos valores.
	previousStatus := payment.Status
	previousAmount := payment.Amount

	if req.ClientName != "" {
		payment.ClientName = req.ClientName
	}
	if req.ClientID != "" {
		payment.ClientID = req.ClientID
	}
	if req.Amount != 0 {
		payment.Amount = req.Amount
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de fecha inválido. Use YYYY-MM-DD."})
			return
		}
		payment.Date = date
	}
	if req.Status != "" {
		payment.Status = req.Status
	}
	if req.PaymentMethod != "" {
		payment.PaymentMethod = req.PaymentMethod
	}
	if req.Notes != "" {
		payment.Notes = req.Notes
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo iniciar la transacción"})
		return
	}

	if err := tx.Save(&payment).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Ajustamos TODOS los eventos que referencian este pago, no solo uno.
	var events []models.Event
	if err := tx.Joins("JOIN event_payments ep ON ep.event_id = events.id").
		Where("ep.payment_id = ?", payment.ID).
		Find(&events).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for i := range events {
		event := &events[i]
		wasPaid := previousStatus == models.PaymentStatusPaid
		isPaid := payment.Status == models.PaymentStatusPaid

		switch {
		case isPaid && !wasPaid:
			event.CurrentAmount += payment.Amount
		case wasPaid && !isPaid:
			event.CurrentAmount -= previousAmount
		case wasPaid && isPaid && payment.Amount != previousAmount:
			event.CurrentAmount += payment.Amount - previousAmount
		default:
			continue
		}
		if event.CurrentAmount < 0 {
			event.CurrentAmount = 0
		}
		if err := tx.Save(event).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	// Una actualización puede asociar el pago a un evento adicional; no hay
	// exclusividad, un pago puede pertenecer a varios eventos a la vez.
	if req.EventID != 0 {
		var event models.Event
		err := tx.First(&event, req.EventID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// El evento indicado no existe: no se asocia nada.
		case err != nil:
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		default:
			var count int64
			if err := tx.Table("event_payments").
				Where("event_id = ? AND payment_id = ?", event.ID, payment.ID).
				Count(&count).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if count == 0 {
				if err := tx.Model(&event).Association("Payments").Append(&payment); err != nil {
					tx.Rollback()
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
				if payment.Status == models.PaymentStatusPaid {
					event.CurrentAmount += payment.Amount
				}
				if err := tx.Save(&event).Error; err != nil {
					tx.Rollback()
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo confirmar la transacción"})
		return
	}

	c.JSON(http.StatusOK, payment)
}

// DeletePaymentHandler elimina un pago. Si estaba en estado 'pagado', su
// monto se descuenta del recaudado de cada evento que lo referencia, sin
// permitir que el total quede negativo.
func DeletePaymentHandler(c *gin.Context) {
	var payment models.Payment
	if err := config.DB.First(&payment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pago no encontrado"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo iniciar la transacción"})
		return
	}

	var events []models.Event
	if err := tx.Joins("JOIN event_payments ep ON ep.event_id = events.id").
		Where("ep.payment_id = ?", payment.ID).
		Find(&events).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for i := range events {
		event := &events[i]
		if payment.Status == models.PaymentStatusPaid {
			event.CurrentAmount -= payment.Amount
			if event.CurrentAmount < 0 {
				event.CurrentAmount = 0
			}
		}
		if err := tx.Model(event).Association("Payments").Delete(&payment); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := tx.Save(event).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if err := tx.Delete(&payment).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo confirmar la transacción"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pago eliminado"})
}

// WeeklyTotals acumula los montos de la semana por estado.
type WeeklyTotals struct {
	Pagado    float64 `json:"pagado"`
	Pendiente float64 `json:"pendiente"`
	Cancelado float64 `json:"cancelado"`
	Total     float64 `json:"total"`
}

// GetWeeklyPaymentsHandler devuelve los pagos de una semana con los totales
// por estado. Sin parámetros usa la semana actual.
func GetWeeklyPaymentsHandler(c *gin.Context) {
	weekNumber, year := models.ComputeWeekBucket(time.Now())
	if w := c.Query("weekNumber"); w != "" {
		parsed, err := strconv.Atoi(w)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Número de semana inválido"})
			return
		}
		weekNumber = parsed
	}
	if y := c.Query("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Año inválido"})
			return
		}
		year = parsed
	}

	var payments []models.Payment
	if err := config.DB.Preload("CreatedBy").
		Where("week_number = ? AND year = ?", weekNumber, year).
		Order("date ASC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Los totales se calculan en cada llamada, nunca se guardan.
	var totals WeeklyTotals
	for _, p := range payments {
		switch p.Status {
		case models.PaymentStatusPaid:
			totals.Pagado += p.Amount
		case models.PaymentStatusPending:
			totals.Pendiente += p.Amount
		case models.PaymentStatusCancelled:
			totals.Cancelado += p.Amount
		}
		totals.Total += p.Amount
	}

	c.JSON(http.StatusOK, gin.H{
		"weekNumber": weekNumber,
		"year":       year,
		"payments":   payments,
		"totals":     totals,
	})
}

func isValidPaymentStatus(status string) bool {
	switch status {
	case models.PaymentStatusPaid, models.PaymentStatusPending, models.PaymentStatusCancelled:
		return true
	}
	return false
}

func isValidPaymentMethod(method string) bool {
	switch method {
	case models.PaymentMethodCash, models.PaymentMethodTransfer, models.PaymentMethodCard, models.PaymentMethodOther:
		return true
	}
	return false
}
