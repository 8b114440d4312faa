package models

import (
	"errors"
	"fmt"
)

// Таксономия ошибок авторизации и лимитов. Каждая ошибка доводится до клиента
// своим HTTP-статусом и сообщением, без подмены на общий "something went wrong".
var (
	// ErrUnauthenticated — отсутствующий или искаженный credential.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrTokenExpired — подпись верна, но срок действия токена истек.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid — плохая подпись или claims.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrForbidden — аутентифицирован, но запрещен guard-ом.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound — ресурс отсутствует либо принадлежит другому заведению.
	// Эти два случая намеренно неразличимы, чтобы не раскрывать существование чужих данных.
	ErrNotFound = errors.New("not found")
	// ErrSubscriptionInactive — подписка заведения приостановлена или истекла.
	ErrSubscriptionInactive = errors.New("subscription inactive")
	// ErrTenantMismatch — в теле запроса указан restaurant_id, отличный от tenant-а токена.
	ErrTenantMismatch = errors.New("restaurant_id conflicts with token tenant")
	// ErrSlugTaken — slug заведения уже занят.
	ErrSlugTaken = errors.New("slug already taken")
	// ErrSlugInvalid — slug не проходит нормализацию: недопустимые символы или пустой результат.
	ErrSlugInvalid = errors.New("invalid slug")
	// ErrEmailTaken — email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already taken")
)

// Виды счетных ресурсов для лимитов тарифа.
const (
	KindUsers    = "users"
	KindProducts = "products"
	KindOrders   = "orders"
)

// LimitExceededError — превышение лимита тарифа по одному из счетных ресурсов.
// Несет вид ресурса и значение лимита для клиентских сообщений об апгрейде.
type LimitExceededError struct {
	Kind  string
	Limit int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("plan limit exceeded: %s (max %d)", e.Kind, e.Limit)
}

// IsLimitExceeded возвращает LimitExceededError из цепочки ошибок, если он там есть.
func IsLimitExceeded(err error) (*LimitExceededError, bool) {
	var le *LimitExceededError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
