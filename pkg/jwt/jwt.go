package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los datos del usuario dentro del local.
// El token lo emite el servicio de autenticación; esta API solo lo valida.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	BranchID   string `json:"branch_id"`
	LocalRole  string `json:"local_role"` // franquiciado | contador | encargado | cajero | agente
	Superadmin bool   `json:"superadmin,omitempty"`
}

// Identity datos del usuario autenticado extraídos del token.
type Identity struct {
	UserID     string
	BranchID   string
	LocalRole  string
	Superadmin bool
}

// Generate genera un token firmado (HS256). Lo usan los tests y las herramientas internas.
func Generate(secret, issuer string, id Identity, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:     id.UserID,
		BranchID:   id.BranchID,
		LocalRole:  id.LocalRole,
		Superadmin: id.Superadmin,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve la identidad.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("claims inválidos")
	}
	if claims.UserID == "" {
		return Identity{}, fmt.Errorf("jwt: token sin user_id")
	}
	return Identity{
		UserID:     claims.UserID,
		BranchID:   claims.BranchID,
		LocalRole:  claims.LocalRole,
		Superadmin: claims.Superadmin,
	}, nil
}
