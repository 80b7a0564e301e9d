// GestionDePagos/internal/handlers/dashboard_handler.go
package handlers

import (
	"net/http"

	"github.com/DevCat-HGS/GestionDePagos/config"
	"github.com/DevCat-HGS/GestionDePagos/models"

	"github.com/gin-gonic/gin"
)

// GetDashboardDataHandler devuelve los contadores generales y la actividad
// reciente que muestra la pantalla principal.
func GetDashboardDataHandler(c *gin.Context) {
	var totalUsers, totalPayments, totalEvents int64
	if err := config.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := config.DB.Model(&models.Payment{}).Count(&totalPayments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := config.DB.Model(&models.Event{}).Count(&totalEvents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var recentPayments []models.Payment
	if err := config.DB.Preload("CreatedBy").
		Order("created_at DESC").Limit(5).
		Find(&recentPayments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var recentEvents []models.Event
	if err := config.DB.Preload("CreatedBy").
		Order("created_at DESC").Limit(5).
		Find(&recentEvents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalUsers":     totalUsers,
		"totalPayments":  totalPayments,
		"totalEvents":    totalEvents,
		"recentPayments": recentPayments,
		"recentEvents":   recentEvents,
	})
}
