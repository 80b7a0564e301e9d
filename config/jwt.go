// GestionDePagos/config/jwt.go
package config

import (
	"log/slog"
	"os"
)

var JwtKey []byte

// LoadJwtKey carga la clave secreta para firmar los tokens desde JWT_SECRET.
func LoadJwtKey() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("Error crítico: la variable de entorno JWT_SECRET no está definida.")
		os.Exit(1)
	}
	JwtKey = []byte(secret)
}
