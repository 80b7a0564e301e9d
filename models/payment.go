// GestionDePagos/models/payment.go
package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// Estados posibles de un pago.
const (
	PaymentStatusPaid      = "pagado"
	PaymentStatusPending   = "pendiente"
	PaymentStatusCancelled = "cancelado"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash     = "efectivo"
	PaymentMethodTransfer = "transferencia"
	PaymentMethodCard     = "tarjeta"
	PaymentMethodOther    = "otro"
)

// Payment representa un pago individual registrado por un usuario.
// WeekNumber y Year son campos derivados de Date para facilitar la
// búsqueda por semana; se recalculan en cada escritura.
type Payment struct {
	gorm.Model
	ClientName    string    `json:"clientName" gorm:"not null"`
	ClientID      string    `json:"clientId" gorm:"not null"`
	Amount        float64   `json:"amount" gorm:"type:numeric(12,2);not null"`
	Date          time.Time `json:"date" gorm:"not null"`
	Status        string    `json:"status" gorm:"not null;default:'pendiente'"`
	PaymentMethod string    `json:"paymentMethod" gorm:"not null;default:'efectivo'"`
	Notes         string    `json:"notes"`
	WeekNumber    int       `json:"weekNumber"`
	Year          int       `json:"year"`
	CreatedByID   uint      `json:"createdById" gorm:"not null"`
	CreatedBy     User      `json:"createdBy" gorm:"foreignKey:CreatedByID"`
}

// ComputeWeekBucket calcula el número de semana y el año de una fecha.
// La semana se cuenta desde el 1 de enero con domingo como primer día
// (índice 0), NO según ISO-8601: los clientes agrupan por este valor,
// así que la fórmula debe mantenerse exactamente igual.
func ComputeWeekBucket(date time.Time) (weekNumber, year int) {
	year = date.Year()
	firstDayOfYear := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	day := time.Date(year, date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	pastDaysOfYear := int(day.Sub(firstDayOfYear).Hours() / 24)
	weekNumber = int(math.Ceil(float64(pastDaysOfYear+int(firstDayOfYear.Weekday())+1) / 7))
	return weekNumber, year
}

// BeforeSave recalcula el número de semana y el año antes de cada escritura,
// para que ninguna ruta de persistencia pueda omitir los campos derivados.
func (p *Payment) BeforeSave(tx *gorm.DB) error {
	if p.Date.IsZero() {
		p.Date = time.Now()
	}
	p.WeekNumber, p.Year = ComputeWeekBucket(p.Date)
	return nil
}
