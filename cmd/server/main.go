// GestionDePagos/cmd/server/main.go
package main

import (
	"log/slog"
	"os"

	"github.com/DevCat-HGS/GestionDePagos/config"
	"github.com/DevCat-HGS/GestionDePagos/internal/routes"
	"github.com/DevCat-HGS/GestionDePagos/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Las variables de entorno pueden venir de un archivo .env en desarrollo.
	if err := godotenv.Load(); err != nil {
		slog.Info("No se encontró archivo .env, se usarán las variables del entorno")
	}

	config.LoadJwtKey()
	config.ConnectDB()
	config.ConnectRedis()

	if err := config.DB.AutoMigrate(&models.User{}, &models.Payment{}, &models.Event{}); err != nil {
		slog.Error("Error al migrar el esquema de la base de datos", "error", err)
		os.Exit(1)
	}

	seedAdminUser()

	r := gin.Default()
	r.Use(cors.Default())

	routes.SetupRouter(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	slog.Info("Servidor ejecutándose", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("El servidor terminó con error", "error", err)
		os.Exit(1)
	}
}

// seedAdminUser crea la cuenta de administrador inicial si no existe ninguna,
// para que el sistema sea usable tras el primer arranque.
func seedAdminUser() {
	var count int64
	if err := config.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		slog.Error("No se pudo verificar la existencia de administradores", "error", err)
		return
	}
	if count > 0 {
		return
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		slog.Warn("No hay administradores y ADMIN_EMAIL/ADMIN_PASSWORD no están definidas; no se creó ninguno")
		return
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Administrador"
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("No se pudo procesar la contraseña del administrador", "error", err)
		return
	}

	admin := models.User{
		Name:           name,
		Email:          email,
		Password:       string(hashedPassword),
		Role:           models.RoleAdmin,
		IsActive:       true,
		IsApproved:     true,
		ApprovalStatus: models.ApprovalApproved,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		slog.Error("No se pudo crear el administrador inicial", "error", err)
		return
	}
	slog.Info("Administrador inicial creado", "email", email)
}
