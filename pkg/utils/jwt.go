package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleAdmin    = "admin"
	RoleKaryawan = "karyawan"
)

// Claims untuk sesi perangkat dashboard.
type Claims struct {
	IDKaryawan int    `json:"id_karyawan"`
	Nama       string `json:"nama"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin melaporkan apakah token membawa hak admin.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

func secretKey() ([]byte, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET_KEY"))
	if len(jwtKey) == 0 {
		return nil, fmt.Errorf("JWT secret key is missing")
	}
	return jwtKey, nil
}

// GenerateJWTToken membuat token HS256 dengan masa berlaku exp.
func GenerateJWTToken(idKaryawan int, nama, role string, exp time.Time) (string, error) {
	jwtKey, err := secretKey()
	if err != nil {
		return "", err
	}

	claims := Claims{
		IDKaryawan: idKaryawan,
		Nama:       nama,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   fmt.Sprintf("%d", idKaryawan),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ValidateJWTToken memvalidasi token JWT dan mengembalikan klaimnya.
func ValidateJWTToken(tokenString string) (*Claims, error) {
	jwtKey, err := secretKey()
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
