// Package posting models individual skill postings: titled offers to teach
// or requests to learn something. Postings are separate from the skill names
// on a profile and never feed the skill board.
package posting

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// MaxDescriptionLength - максимальная длина описания в символах.
const MaxDescriptionLength = 500

// DefaultCategory is used when a posting has no category.
const DefaultCategory = "General"

// SkillType - предлагает автор навык или ищет его.
type SkillType string

const (
	SkillTypeTeach SkillType = "teach"
	SkillTypeLearn SkillType = "learn"
)

// IsValid reports whether t is a known type.
func (t SkillType) IsValid() bool {
	return t == SkillTypeTeach || t == SkillTypeLearn
}

// Posting is one skill posting.
type Posting struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	SkillType   SkillType `json:"skillType"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Normalize обрезает пробелы и подставляет значения по умолчанию.
func (p *Posting) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Category = strings.TrimSpace(p.Category)
	if p.Category == "" {
		p.Category = DefaultCategory
	}
}

// Validate проверяет объявление после Normalize.
func (p *Posting) Validate() error {
	if p.Title == "" {
		return shared.ErrPostingTitleRequired
	}
	if utf8.RuneCountInString(p.Description) > MaxDescriptionLength {
		return shared.ErrPostingTooLong
	}
	if !p.SkillType.IsValid() {
		return shared.ErrPostingInvalidType
	}
	return nil
}

// Filter сужает выборку List. Пустые поля не фильтруют.
// Search ищет подстроку в заголовке или описании без учёта регистра.
type Filter struct {
	UserID    string
	SkillType SkillType
	Category  string
	Search    string
}

// Matches reports whether p passes the filter.
func (f Filter) Matches(p *Posting) bool {
	if f.UserID != "" && p.UserID != f.UserID {
		return false
	}
	if f.SkillType != "" && p.SkillType != f.SkillType {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Search != "" {
		fold := cases.Fold()
		needle := fold.String(f.Search)
		return strings.Contains(fold.String(p.Title), needle) ||
			strings.Contains(fold.String(p.Description), needle)
	}
	return true
}

// Repository хранит объявления. Update и Delete работают только для
// владельца и возвращают ErrPostingNotFound для чужих объявлений.
type Repository interface {
	Create(ctx context.Context, p *Posting) error
	GetByID(ctx context.Context, id string) (*Posting, error)
	List(ctx context.Context, f Filter) ([]*Posting, error)
	Update(ctx context.Context, p *Posting) error
	Delete(ctx context.Context, id, userID string) error
}
