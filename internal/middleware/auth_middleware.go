// GestionDePagos/internal/middleware/auth_middleware.go
package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/DevCat-HGS/GestionDePagos/config"
	"github.com/DevCat-HGS/GestionDePagos/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// CachedUserData agrupa los datos del usuario que se guardan en el caché
// para no consultar la base de datos en cada petición.
type CachedUserData struct {
	UserID         uint   `json:"user_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ApprovalStatus string `json:"approval_status"`
}

// AuthMiddleware valida el token Bearer, resuelve el usuario y lo adjunta
// al contexto de la petición. Las cuentas sin aprobar no pasan de aquí.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			handleAuthError(c, "No autorizado, no hay token")
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			handleAuthError(c, "Formato del encabezado Authorization inválido")
			return
		}
		tokenStr := parts[1]

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de firma inesperado: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			handleAuthError(c, "No autorizado, token inválido")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handleAuthError(c, "No autorizado, token inválido")
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			handleAuthError(c, "No autorizado, token inválido")
			return
		}
		userID := uint(userIDFloat)

		cacheKey := fmt.Sprintf("user:%d:data", userID)
		if config.RDB != nil {
			cachedData, err := config.RDB.Get(config.Ctx, cacheKey).Result()
			if err == nil {
				var userData CachedUserData
				if json.Unmarshal([]byte(cachedData), &userData) == nil {
					setContextAndProceed(c, &userData)
					return
				}
				slog.Warn("No se pudo deserializar el usuario del caché", "user_id", userID)
			} else if err != redis.Nil {
				slog.Error("Falló el comando GET de Redis", "error", err, "user_id", userID)
			}
		}

		var dbUser models.User
		if err := config.DB.First(&dbUser, userID).Error; err != nil {
			handleAuthError(c, "No autorizado, el usuario del token no existe")
			return
		}

		userData := CachedUserData{
			UserID:         dbUser.ID,
			Name:           dbUser.Name,
			Email:          dbUser.Email,
			Role:           dbUser.Role,
			ApprovalStatus: dbUser.ApprovalStatus,
		}

		if config.RDB != nil {
			jsonData, err := json.Marshal(userData)
			if err != nil {
				slog.Error("No se pudo serializar el usuario para el caché", "error", err, "user_id", userID)
			} else if err := config.RDB.Set(config.Ctx, cacheKey, jsonData, 10*time.Minute).Err(); err != nil {
				slog.Error("Falló el comando SET de Redis", "error", err, "user_id", userID)
			}
		}

		setContextAndProceed(c, &userData)
	}
}

func setContextAndProceed(c *gin.Context, userData *CachedUserData) {
	if userData.ApprovalStatus != models.ApprovalApproved {
		handleAuthError(c, "Cuenta pendiente de aprobación")
		return
	}
	c.Set("user_id", userData.UserID)
	c.Set("user_name", userData.Name)
	c.Set("user_email", userData.Email)
	c.Set("user_role", userData.Role)
	c.Next()
}

// AdminMiddleware permite continuar solo a usuarios con rol de administrador.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists || role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "No autorizado como administrador"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// InvalidateUserCache elimina la entrada del caché de un usuario, para que
// los cambios de rol o aprobación surtan efecto de inmediato.
func InvalidateUserCache(userID uint) {
	if config.RDB == nil {
		return
	}
	cacheKey := fmt.Sprintf("user:%d:data", userID)
	if err := config.RDB.Del(config.Ctx, cacheKey).Err(); err != nil {
		slog.Error("No se pudo invalidar el caché del usuario", "error", err, "user_id", userID)
	}
}

func handleAuthError(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}
