package transport

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity описывает пользователя, от имени которого ведется сессия
type Identity struct {
	UserID   string
	UserName string
}

// IdentityFromToken извлекает идентификацию из access-токена.
// Подпись не проверяется: токен уже выдан сервером, здесь он нужен
// только как источник user_id и имени для объявления присутствия.
func IdentityFromToken(token string) (Identity, error) {
	claims := jwt.MapClaims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, fmt.Errorf("access token has no subject claim")
	}

	id := Identity{UserID: sub, UserName: sub}
	if name, ok := claims["name"].(string); ok && name != "" {
		id.UserName = name
	}

	return id, nil
}
