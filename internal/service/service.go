// service содержит бизнес-логику auth-сервиса:
// регистрацию/аутентификацию пользователей, выпуск/проверку токенов
// и работу с хранилищем через интерфейсы из пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//   - Ключ подписи декодируется один раз в New и после старта только читается.
//   - Ошибки возвращаются и далее маппятся
//     транспортом на HTTP-статусы (см. комментарии к переменным ошибок ниже).
package service

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/jobtrack/auth-service/internal/config"
	"github.com/jobtrack/auth-service/internal/storage"
)

// minSigningKeyLen — минимальная длина ключа подписи HS256 в байтах (256 бит).
const minSigningKeyLen = 32

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Транспорт: HTTP 401, без различения "нет такого email" и "неверный пароль".
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — refresh-токен отсутствует в хранилище или непригоден.
	// Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк.
	// Транспорт: HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked — токен отозван (logout/rotation) и недействителен
	// независимо от срока. Транспорт: HTTP 401.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrTokenMalformed — access-токен структурно не разбирается как JWT.
	// Транспорт: HTTP 401.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrSignatureInvalid — подпись access-токена не проходит проверку
	// (подделка либо ротация ключа). Транспорт: HTTP 401.
	ErrSignatureInvalid = errors.New("token signature invalid")

	// ErrMissingClaims — подпись верна, но обязательные claims (sub/uid/role)
	// отсутствуют или непригодны. Вызывающие трактуют как "нет личности",
	// а не как жёсткий сбой. Транспорт: HTTP 401.
	ErrMissingClaims = errors.New("token missing required claims")

	// ErrEmailTaken — e-mail уже занят другим пользователем.
	// Транспорт: HTTP 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrRefreshTokenCollision — исчерпаны попытки сгенерировать уникальный refresh-токен
	// (редкий случай коллизий при сохранении хэша в БД после нескольких ретраев).
	// Транспорт: HTTP 500.
	ErrRefreshTokenCollision = errors.New("refresh token collision")

	// ErrInvalidEmail — e-mail имеет некорректный формат или не проходит политику валидации.
	// Транспорт: HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль не удовлетворяет политикам сложности.
	// Транспорт: HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой.
	// Транспорт: HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")
)

// Service описывает бизнес-логику auth-сервиса.
type Service struct {
	storage    storage.Storage
	cfg        config.AuthConfig
	signingKey []byte
}

// New создаёт новый экземпляр Service.
// Секрет подписи ожидается в base64; декодированный ключ короче 256 бит —
// ошибка конфигурации, сервис с таким ключом не стартует.
func New(storage storage.Storage, cfg config.AuthConfig) (*Service, error) {
	const op = "service.New"

	key, err := base64.StdEncoding.DecodeString(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("%s: jwt secret is not valid base64: %w", op, err)
	}

	if len(key) < minSigningKeyLen {
		return nil, fmt.Errorf("%s: jwt secret must decode to at least %d bytes, got %d",
			op, minSigningKeyLen, len(key))
	}

	return &Service{
		storage:    storage,
		cfg:        cfg,
		signingKey: key,
	}, nil
}
