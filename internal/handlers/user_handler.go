// GestionDePagos/internal/handlers/user_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/DevCat-HGS/GestionDePagos/config"
	"github.com/DevCat-HGS/GestionDePagos/internal/middleware"
	"github.com/DevCat-HGS/GestionDePagos/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest define la estructura para registrar una cuenta nueva.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest define las credenciales de inicio de sesión.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse es la carga que recibe el cliente tras registrarse o iniciar
// sesión. El cliente usa approvalStatus para enrutar a la pantalla de espera.
type AuthResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	IsApproved     bool   `json:"isApproved"`
	ApprovalStatus string `json:"approvalStatus"`
	Token          string `json:"token"`
}

// UpdateProfileRequest define los campos que el propio usuario puede cambiar.
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest define los campos que un administrador puede cambiar.
type UpdateUserRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ApprovalStatus string `json:"approvalStatus"`
	Password       string `json:"password"`
}

// generateToken firma un JWT de 30 días para el usuario.
func generateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"exp":     time.Now().Add(30 * 24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JwtKey)
}

func authResponse(user *models.User, token string) AuthResponse {
	return AuthResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		IsApproved:     user.IsApproved,
		ApprovalStatus: user.ApprovalStatus,
		Token:          token,
	}
}

// RegisterUserHandler crea una cuenta nueva en estado pendiente de aprobación.
func RegisterUserHandler(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de registro inválidos: " + err.Error()})
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El usuario ya existe"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo procesar la contraseña"})
		return
	}

	user := models.User{
		Name:           req.Name,
		Email:          req.Email,
		Password:       string(hashedPassword),
		Role:           models.RoleUser,
		IsActive:       true,
		IsApproved:     false,
		ApprovalStatus: models.ApprovalPending,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := generateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo generar el token"})
		return
	}

	c.JSON(http.StatusCreated, authResponse(&user, token))
}

// LoginUserHandler valida las credenciales y devuelve el token. Las cuentas
// pendientes reciben su carga igualmente: el cliente las lleva a la pantalla
// de espera. Las cuentas rechazadas no pueden entrar.
func LoginUserHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de inicio de sesión inválidos: " + err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email o contraseña incorrectos"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email o contraseña incorrectos"})
		return
	}
	if user.ApprovalStatus == models.ApprovalRejected {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Su cuenta ha sido rechazada"})
		return
	}

	token, err := generateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo generar el token"})
		return
	}

	c.JSON(http.StatusOK, authResponse(&user, token))
}

// GetUserProfileHandler devuelve el perfil del usuario autenticado.
func GetUserProfileHandler(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, currentUserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUserProfileHandler actualiza el perfil del usuario autenticado.
func UpdateUserProfileHandler(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, currentUserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de perfil inválidos: " + err.Error()})
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo procesar la contraseña"})
			return
		}
		user.Password = string(hashedPassword)
	}

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	middleware.InvalidateUserCache(user.ID)

	c.JSON(http.StatusOK, user)
}

// ListUsersHandler devuelve todos los usuarios. Solo administradores.
func ListUsersHandler(c *gin.Context) {
	var users []models.User
	if err := config.DB.Order("id asc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUserHandler devuelve un usuario por su ID. Solo administradores.
func GetUserHandler(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUserHandler actualiza un usuario desde el panel de administración.
func UpdateUserHandler(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de usuario inválidos: " + err.Error()})
		return
	}

	if req.Role != "" && req.Role != models.RoleAdmin && req.Role != models.RoleUser {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rol inválido"})
		return
	}
	if req.ApprovalStatus != "" &&
		req.ApprovalStatus != models.ApprovalPending &&
		req.ApprovalStatus != models.ApprovalApproved &&
		req.ApprovalStatus != models.ApprovalRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado de aprobación inválido"})
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.ApprovalStatus != "" {
		user.ApprovalStatus = req.ApprovalStatus
		user.IsApproved = req.ApprovalStatus == models.ApprovalApproved
	}
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo procesar la contraseña"})
			return
		}
		user.Password = string(hashedPassword)
	}

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	middleware.InvalidateUserCache(user.ID)

	c.JSON(http.StatusOK, user)
}

// ApproveUserHandler aprueba una cuenta pendiente. Solo administradores.
func ApproveUserHandler(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	user.IsApproved = true
	user.ApprovalStatus = models.ApprovalApproved
	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	middleware.InvalidateUserCache(user.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Usuario aprobado correctamente"})
}

// DeleteUserHandler elimina un usuario. Solo administradores.
func DeleteUserHandler(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	if err := config.DB.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	middleware.InvalidateUserCache(user.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Usuario eliminado"})
}
