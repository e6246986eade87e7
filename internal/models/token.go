package models

import "time"

// Claims — проверенное содержимое access-токена.
type Claims struct {
	// Subject — username владельца.
	Subject string
	// ID — уникальный идентификатор токена (jti).
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AccessToken — выпущенный токен и момент его истечения (UTC).
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}
