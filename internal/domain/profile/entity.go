// Package profile содержит доменную модель пользователя SkillSwap:
// профиль со списками навыков и закладками.
// Здесь нет внешних зависимостей.
package profile

import (
	"strings"
	"time"
)

// DefaultName используется, если при регистрации имя не указано.
const DefaultName = "User"

// MinPasswordLength минимальная длина пароля.
const MinPasswordLength = 6

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Profile - пользователь и его навыки.
// Названия навыков - свободный текст, сравниваются с учётом регистра.
type Profile struct {
	ID           string
	Name         string
	Email        string
	Mobile       string
	PasswordHash string
	Bio          string

	SkillsToTeach []string
	SkillsToLearn []string
	SavedSkills   []string

	IsProfileComplete bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfileParams содержит данные для регистрации.
type NewProfileParams struct {
	ID           string
	Name         string
	Email        string
	Mobile       string
	PasswordHash string
}

// NewProfile создаёт пустой профиль нового пользователя.
func NewProfile(p NewProfileParams) *Profile {
	now := time.Now().UTC()
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = DefaultName
	}
	return &Profile{
		ID:            p.ID,
		Name:          name,
		Email:         strings.ToLower(strings.TrimSpace(p.Email)),
		Mobile:        strings.TrimSpace(p.Mobile),
		PasswordHash:  p.PasswordHash,
		SkillsToTeach: []string{},
		SkillsToLearn: []string{},
		SavedSkills:   []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Update описывает частичное изменение профиля. nil - поле не меняется.
type Update struct {
	Name          *string
	Bio           *string
	SkillsToTeach []string
	SkillsToLearn []string

	// SetTeach/SetLearn отличают "не передано" от "пустой список".
	SetTeach bool
	SetLearn bool
}

// Apply применяет изменения и пересчитывает IsProfileComplete.
func (p *Profile) Apply(u Update) {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Bio != nil {
		p.Bio = strings.TrimSpace(*u.Bio)
	}
	if u.SetTeach {
		p.SkillsToTeach = NormalizeSkills(u.SkillsToTeach)
	}
	if u.SetLearn {
		p.SkillsToLearn = NormalizeSkills(u.SkillsToLearn)
	}
	p.IsProfileComplete = p.computeComplete()
	p.UpdatedAt = time.Now().UTC()
}

func (p *Profile) computeComplete() bool {
	return p.Name != "" && (len(p.SkillsToTeach) > 0 || len(p.SkillsToLearn) > 0)
}

// HasSaved сообщает, есть ли навык в закладках.
func (p *Profile) HasSaved(skill string) bool {
	for _, s := range p.SavedSkills {
		if s == skill {
			return true
		}
	}
	return false
}

// NormalizeSkills обрезает пробелы, убирает пустые строки и повторы,
// сохраняя порядок первого вхождения. Регистр не меняется.
func NormalizeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ToggleSaved добавляет навык в конец списка или удаляет первое вхождение.
// Возвращает новый список, исходный не изменяется.
func ToggleSaved(saved []string, skill string) []string {
	out := make([]string, 0, len(saved)+1)
	removed := false
	for _, s := range saved {
		if !removed && s == skill {
			removed = true
			continue
		}
		out = append(out, s)
	}
	if !removed {
		out = append(out, skill)
	}
	return out
}
