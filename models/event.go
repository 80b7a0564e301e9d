// GestionDePagos/models/event.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Estados posibles de un evento de recaudación.
const (
	EventStatusPending    = "pendiente"
	EventStatusInProgress = "en_progreso"
	EventStatusFinished   = "finalizado"
	EventStatusCancelled  = "cancelado"
)

// Frecuencias de recolección (solo informativas, no programan nada).
const (
	FrequencyDaily  = "diario"
	FrequencyWeekly = "semanal"
	FrequencyNone   = "ninguno"
)

// Event representa un evento de recaudación de fondos con un monto objetivo
// y un monto recaudado. CurrentAmount es un valor derivado: siempre debe
// coincidir con la suma de los pagos asociados en estado 'pagado' y se
// mantiene de forma incremental desde los manejadores de pagos.
type Event struct {
	gorm.Model
	Name                string    `json:"name" gorm:"not null"`
	Description         string    `json:"description"`
	StartDate           time.Time `json:"startDate" gorm:"not null"`
	EndDate             time.Time `json:"endDate" gorm:"not null"`
	CollectionFrequency string    `json:"collectionFrequency" gorm:"not null;default:'ninguno'"`
	TargetAmount        float64   `json:"targetAmount" gorm:"type:numeric(12,2);not null"`
	CurrentAmount       float64   `json:"currentAmount" gorm:"type:numeric(12,2);default:0"`
	Status              string    `json:"status" gorm:"not null;default:'pendiente'"`
	CreatedByID         uint      `json:"createdById" gorm:"not null"`
	CreatedBy           User      `json:"createdBy" gorm:"foreignKey:CreatedByID"`
	Payments            []Payment `json:"payments" gorm:"many2many:event_payments;"`

	// ForceCancel marca la escritura actual como una cancelación explícita.
	// No se persiste: una escritura posterior vuelve a derivar el estado
	// desde las fechas salvo que también solicite la cancelación.
	ForceCancel bool `json:"-" gorm:"-"`
}

// ComputeEventStatus deriva el estado de un evento a partir del instante
// actual y su rango de fechas.
func ComputeEventStatus(now, startDate, endDate time.Time) string {
	switch {
	case now.Before(startDate):
		return EventStatusPending
	case now.After(endDate):
		return EventStatusFinished
	default:
		return EventStatusInProgress
	}
}

// BeforeSave vuelve a derivar el estado en cada escritura del evento.
// La cancelación explícita solo vale para esta escritura.
func (e *Event) BeforeSave(tx *gorm.DB) error {
	if e.ForceCancel {
		e.Status = EventStatusCancelled
		return nil
	}
	e.Status = ComputeEventStatus(time.Now(), e.StartDate, e.EndDate)
	return nil
}
