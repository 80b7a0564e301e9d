// GestionDePagos/internal/handlers/event_handler.go
package handlers

import (
	"net/http"

	"github.com/DevCat-HGS/GestionDePagos/config"
	"github.com/DevCat-HGS/GestionDePagos/models"

	"github.com/gin-gonic/gin"
)

// CreateEventRequest define la estructura para crear un evento.
type CreateEventRequest struct {
	Name                string  `json:"name" binding:"required"`
	Description         string  `json:"description"`
	StartDate           string  `json:"startDate" binding:"required"`
	EndDate             string  `json:"endDate" binding:"required"`
	CollectionFrequency string  `json:"collectionFrequency"`
	TargetAmount        float64 `json:"targetAmount" binding:"required"`
}

// UpdateEventRequest define la estructura para actualizar un evento.
// Los campos vacíos conservan el valor anterior. El único cambio manual de
// estado que se acepta es la cancelación; cualquier otro valor se ignora y
// el estado se deriva de las fechas.
type UpdateEventRequest struct {
	Name                string  `json:"name"`
	Description         string  `json:"description"`
	StartDate           string  `json:"startDate"`
	EndDate             string  `json:"endDate"`
	CollectionFrequency string  `json:"collectionFrequency"`
	TargetAmount        float64 `json:"targetAmount"`
	Status              string  `json:"status"`
}

// AddPaymentRequest define el cuerpo para asociar un pago a un evento.
type AddPaymentRequest struct {
	PaymentID uint `json:"paymentId" binding:"required"`
}

// CreateEventHandler crea un nuevo evento de recaudación.
func CreateEventHandler(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de evento inválidos: " + err.Error()})
		return
	}
	if req.TargetAmount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El monto objetivo no puede ser negativo"})
		return
	}
	if req.CollectionFrequency != "" && !isValidFrequency(req.CollectionFrequency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Frecuencia de recolección inválida"})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de fecha inválido. Use YYYY-MM-DD."})
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de fecha inválido. Use YYYY-MM-DD."})
		return
	}
	if startDate.After(endDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La fecha de inicio no puede ser posterior a la fecha de finalización"})
		return
	}

	event := models.Event{
		Name:                req.Name,
		Description:         req.Description,
		StartDate:           startDate,
		EndDate:             endDate,
		CollectionFrequency: models.FrequencyNone,
		TargetAmount:        req.TargetAmount,
		CreatedByID:         currentUserID(c),
	}
	if req.CollectionFrequency != "" {
		event.CollectionFrequency = req.CollectionFrequency
	}

	if err := config.DB.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// ListEventsHandler devuelve los eventos con filtros opcionales por estado,
// nombre y rango de fechas.
func ListEventsHandler(c *gin.Context) {
	query := config.DB.Model(&models.Event{}).Preload("CreatedBy")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if name := c.Query("name"); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if startDate, endDate := c.Query("startDate"), c.Query("endDate"); startDate != "" && endDate != "" {
		start, err1 := parseDate(startDate)
		end, err2 := parseDate(endDate)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de fecha inválido. Use YYYY-MM-DD."})
			return
		}
		// El evento entra en el filtro si su inicio o su fin cae en el rango.
		query = query.Where("(start_date BETWEEN ? AND ?) OR (end_date BETWEEN ? AND ?)", start, end, start, end)
	}

	var events []models.Event
	if err := query.Order("start_date DESC").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEventHandler devuelve un evento con sus pagos asociados.
func GetEventHandler(c *gin.Context) {
	var event models.Event
	if err := config.DB.Preload("CreatedBy").Preload("Payments").
		First(&event, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evento no encontrado"})
		return
	}
	c.JSON(http.StatusOK, event)
}

// UpdateEventHandler actualiza un evento. El estado siempre se vuelve a
// derivar de las fechas al guardar, salvo que la petición solicite la
// cancelación de forma explícita.
func UpdateEventHandler(c *gin.Context) {
	var event models.Event
	if err := config.DB.First(&event, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evento no encontrado"})
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de evento inválidos: " + err.Error()})
		return
	}
	if req.CollectionFrequency != "" && !isValidFrequency(req.CollectionFrequency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Frecuencia de recolección inválida"})
		return
	}
	if req.TargetAmount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El monto objetivo no puede ser negativo"})
		return
	}

	if req.Name != "" {
		event.Name = req.Name
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if req.StartDate != "" {
		start, err := parseDate(req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de fecha inválido. Use YYYY-MM-DD."})
			return
		}
		event.StartDate = start
	}
	if req.EndDate != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de fecha inválido. Use YYYY-MM-DD."})
			return
		}
		event.EndDate = end
	}
	if req.CollectionFrequency != "" {
		event.CollectionFrequency = req.CollectionFrequency
	}
	if req.TargetAmount != 0 {
		event.TargetAmount = req.TargetAmount
	}

	// Solo se acepta el cambio manual de estado para cancelar.
	if req.Status == models.EventStatusCancelled {
		event.ForceCancel = true
	}

	if err := config.DB.Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEventHandler elimina un evento. Los pagos asociados no se tocan:
// siguen existiendo como registros independientes.
func DeleteEventHandler(c *gin.Context) {
	var event models.Event
	if err := config.DB.First(&event, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evento no encontrado"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo iniciar la transacción"})
		return
	}
	if err := tx.Model(&event).Association("Payments").Clear(); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Delete(&event).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo confirmar la transacción"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Evento eliminado"})
}

// AddPaymentToEventHandler asocia un pago existente a un evento. A diferencia
// de la creación de pagos, aquí el monto se suma al recaudado sin importar el
// estado del pago.
func AddPaymentToEventHandler(c *gin.Context) {
	var event models.Event
	if err := config.DB.First(&event, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evento no encontrado"})
		return
	}

	var req AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error()})
		return
	}

	var payment models.Payment
	if err := config.DB.First(&payment, req.PaymentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pago no encontrado"})
		return
	}

	// La asociación duplicada se rechaza, no es un no-op silencioso.
	var count int64
	if err := config.DB.Table("event_payments").
		Where("event_id = ? AND payment_id = ?", event.ID, payment.ID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El pago ya está asociado a este evento"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo iniciar la transacción"})
		return
	}
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
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo confirmar la transacción"})
		return
	}

	c.JSON(http.StatusOK, event)
}

func isValidFrequency(frequency string) bool {
	switch frequency {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyNone:
		return true
	}
	return false
}
