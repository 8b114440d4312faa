// Package jwt реализует генерацию и парсинг JWT токенов с tenant-claims.
//
// Maker определяет интерфейс для создания и проверки токенов доступа.
// MakerImpl — конкретная реализация с использованием секретного ключа,
// срока жизни токена и грейс-периода для явного обновления.
package jwt

import (
	"time"

	"github.com/magabrotheeeer/restaurant-pos/internal/models"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken выпускает access-токен для пользователя заведения
	// либо платформенного администратора.
	GenerateToken(user *models.User) (string, error)
	// ParseToken разбирает токен и возвращает Claims, либо ошибку из таксономии
	// (ErrTokenExpired / ErrTokenInvalid).
	ParseToken(tokenStr string) (*Claims, error)
	// ParseForRenewal принимает еще действующий токен либо токен,
	// истекший в пределах грейс-периода. Используется только операцией обновления.
	ParseForRenewal(tokenStr string) (*Claims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа,
// времени жизни токена (TTL) и грейс-периода обновления.
type MakerImpl struct {
	secretKey  string
	tokenTTL   time.Duration
	renewGrace time.Duration
}

// NewJWTMaker создаёт новый экземпляр MakerImpl.
func NewJWTMaker(secretKey string, ttl, renewGrace time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		tokenTTL:   ttl,
		renewGrace: renewGrace,
	}
}
