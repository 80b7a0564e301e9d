// GestionDePagos/internal/handlers/handler_utils.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// parseDate acepta fechas en formato YYYY-MM-DD o RFC3339, los dos formatos
// que envía el cliente web.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// currentUserID devuelve el ID del usuario autenticado adjuntado por el
// middleware de autenticación.
func currentUserID(c *gin.Context) uint {
	if id, exists := c.Get("user_id"); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}
