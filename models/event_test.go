package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestComputeEventStatus(t *testing.T) {
	startDate := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"antes del inicio", time.Date(2023, time.December, 15, 0, 0, 0, 0, time.UTC), EventStatusPending},
		{"dentro del rango", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), EventStatusInProgress},
		{"exactamente en el inicio", startDate, EventStatusInProgress},
		{"exactamente en el fin", endDate, EventStatusInProgress},
		{"después del fin", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), EventStatusFinished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeEventStatus(tt.now, startDate, endDate))
		})
	}
}

func openModelTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Payment{}, &Event{}))
	return db
}

func TestEventStatusDerivedOnEverySave(t *testing.T) {
	db := openModelTestDB(t)

	event := Event{
		Name:         "Rifa anual",
		StartDate:    time.Now().Add(-24 * time.Hour),
		EndDate:      time.Now().Add(24 * time.Hour),
		TargetAmount: 100,
	}
	require.NoError(t, db.Create(&event).Error)
	assert.Equal(t, EventStatusInProgress, event.Status)

	// Un evento cuyo rango ya pasó queda finalizado al guardarse.
	event.StartDate = time.Now().Add(-72 * time.Hour)
	event.EndDate = time.Now().Add(-24 * time.Hour)
	require.NoError(t, db.Save(&event).Error)
	assert.Equal(t, EventStatusFinished, event.Status)

	// Y uno futuro vuelve a pendiente.
	event.StartDate = time.Now().Add(24 * time.Hour)
	event.EndDate = time.Now().Add(72 * time.Hour)
	require.NoError(t, db.Save(&event).Error)
	assert.Equal(t, EventStatusPending, event.Status)
}

func TestEventCancellationOnlyHoldsForThatWrite(t *testing.T) {
	db := openModelTestDB(t)

	event := Event{
		Name:         "Bingo",
		StartDate:    time.Now().Add(-24 * time.Hour),
		EndDate:      time.Now().Add(24 * time.Hour),
		TargetAmount: 100,
	}
	require.NoError(t, db.Create(&event).Error)

	// La cancelación explícita gana sobre el estado derivado de las fechas.
	event.ForceCancel = true
	require.NoError(t, db.Save(&event).Error)
	assert.Equal(t, EventStatusCancelled, event.Status)

	// Pero no se conserva: la siguiente escritura sin la marca vuelve a
	// derivar el estado desde las fechas.
	event.ForceCancel = false
	require.NoError(t, db.Save(&event).Error)
	assert.Equal(t, EventStatusInProgress, event.Status)
}

func TestPaymentWeekBucketPersistedOnSave(t *testing.T) {
	db := openModelTestDB(t)

	payment := Payment{
		ClientName: "Juan Pérez",
		ClientID:   "1002003000",
		Amount:     50,
		Date:       time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&payment).Error)
	assert.Equal(t, 1, payment.WeekNumber)
	assert.Equal(t, 2024, payment.Year)

	// Cambiar la fecha recalcula la semana en la misma escritura.
	payment.Date = time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Save(&payment).Error)

	var reloaded Payment
	require.NoError(t, db.First(&reloaded, payment.ID).Error)
	assert.Equal(t, 53, reloaded.WeekNumber)
	assert.Equal(t, 2024, reloaded.Year)
}

func TestPaymentDateDefaultsToNow(t *testing.T) {
	db := openModelTestDB(t)

	payment := Payment{
		ClientName: "Ana Gómez",
		ClientID:   "1002003001",
		Amount:     25,
	}
	require.NoError(t, db.Create(&payment).Error)

	assert.False(t, payment.Date.IsZero())
	wantWeek, wantYear := ComputeWeekBucket(time.Now())
	assert.Equal(t, wantWeek, payment.WeekNumber)
	assert.Equal(t, wantYear, payment.Year)
}
