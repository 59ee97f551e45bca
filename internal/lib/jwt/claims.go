// Package jwt подписывает идентификатор сессии для хранения в cookie.
//
// Maker определяет интерфейс для упаковки идентификатора сессии в подписанный
// токен и его извлечения. Сам токен не является доказательством аутентификации:
// сессия по-прежнему проверяется в хранилище на каждом запросе.
package jwt

import "time"

// Maker описывает интерфейс подписи идентификатора сессии.
//
// GenerateToken упаковывает идентификатор сессии в токен с временем жизни,
// ParseToken проверяет подпись и срок действия и возвращает идентификатор.
type Maker interface {
	GenerateToken(sessionID string, expiresAt time.Time) (string, error)
	ParseToken(tokenStr string) (string, error)
}

// MakerImpl реализует Maker на HMAC-SHA256 с секретным ключом.
type MakerImpl struct {
	secretKey []byte // Секретный ключ для подписи токенов.
	issuer    string
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа.
func NewJWTMaker(secretKey, issuer string) *MakerImpl {
	return &MakerImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}
}
