package profile

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранилища профилей.
type Repository interface {
	// Create сохраняет новый профиль.
	// Возвращает ErrProfileExists, если email или телефон заняты.
	Create(ctx context.Context, p *Profile) error

	// GetByID возвращает профиль по ID.
	// Возвращает ErrProfileNotFound, если профиль не найден.
	GetByID(ctx context.Context, id string) (*Profile, error)

	// GetByLogin ищет профиль по email или телефону.
	GetByLogin(ctx context.Context, email, mobile string) (*Profile, error)

	// Update сохраняет изменённые поля профиля (имя, био, списки навыков).
	Update(ctx context.Context, p *Profile) error

	// ListAll возвращает снимок всех профилей для агрегации.
	ListAll(ctx context.Context) ([]*Profile, error)

	// ToggleSavedSkill атомарно добавляет или удаляет навык из закладок
	// и возвращает итоговый список.
	ToggleSavedSkill(ctx context.Context, id, skill string) ([]string, error)

	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}

// SessionStore хранит сессии: непрозрачный токен -> ID пользователя.
type SessionStore interface {
	// Create сохраняет сессию на ttl.
	Create(ctx context.Context, token, userID string, ttl time.Duration) error

	// Resolve возвращает ID пользователя или ErrNoSession.
	Resolve(ctx context.Context, token string) (string, error)

	// Delete удаляет сессию.
	Delete(ctx context.Context, token string) error
}
