package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProfileRepository implements profile.Repository for PostgreSQL.
type ProfileRepository struct {
	conn *Connection
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(conn *Connection) *ProfileRepository {
	return &ProfileRepository{conn: conn}
}

const profileColumns = `
	id, name, email, mobile, password_hash, bio,
	skills_to_teach, skills_to_learn, saved_skills,
	is_profile_complete, created_at, updated_at
`

// Create inserts a new profile.
func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.conn.Pool().Exec(ctx, query,
		p.ID,
		p.Name,
		nullIfEmpty(p.Email),
		nullIfEmpty(p.Mobile),
		p.PasswordHash,
		p.Bio,
		nonNil(p.SkillsToTeach),
		nonNil(p.SkillsToLearn),
		nonNil(p.SavedSkills),
		p.IsProfileComplete,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrProfileExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID returns a profile by ID.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	row := r.conn.Pool().QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

// GetByLogin returns the profile matching email, or mobile when email is empty.
func (r *ProfileRepository) GetByLogin(ctx context.Context, email, mobile string) (*profile.Profile, error) {
	var row pgx.Row
	if email != "" {
		row = r.conn.Pool().QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email)
	} else {
		row = r.conn.Pool().QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE mobile = $1`, mobile)
	}
	return scanProfile(row)
}

// Update записывает редактируемые поля. Закладки меняет только ToggleSavedSkill.
func (r *ProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	query := `
		UPDATE profiles SET
			name = $1,
			bio = $2,
			skills_to_teach = $3,
			skills_to_learn = $4,
			is_profile_complete = $5,
			updated_at = $6
		WHERE id = $7
	`

	tag, err := r.conn.Pool().Exec(ctx, query,
		p.Name,
		p.Bio,
		nonNil(p.SkillsToTeach),
		nonNil(p.SkillsToLearn),
		p.IsProfileComplete,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrProfileNotFound
	}
	return nil
}

// ListAll returns every profile in registration order.
func (r *ProfileRepository) ListAll(ctx context.Context) ([]*profile.Profile, error) {
	rows, err := r.conn.Pool().Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var out []*profile.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return out, nil
}

// ToggleSavedSkill переключает навык одним UPDATE: параллельные вызовы
// упорядочиваются блокировкой строки и не оставляют дубликатов.
// Удаляется только первое вхождение, как в хранилище в памяти.
func (r *ProfileRepository) ToggleSavedSkill(ctx context.Context, id, skill string) ([]string, error) {
	query := `
		UPDATE profiles SET
			saved_skills = CASE
				WHEN array_position(saved_skills, $2::text) IS NOT NULL THEN
					saved_skills[:array_position(saved_skills, $2::text) - 1] ||
					saved_skills[array_position(saved_skills, $2::text) + 1:]
				ELSE array_append(saved_skills, $2::text)
			END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING saved_skills
	`

	var saved []string
	err := r.conn.Pool().QueryRow(ctx, query, id, skill).Scan(&saved)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to toggle saved skill: %w", err)
	}
	return nonNil(saved), nil
}

// Ping checks connectivity.
func (r *ProfileRepository) Ping(ctx context.Context) error {
	return r.conn.Ping(ctx)
}

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	var (
		p             profile.Profile
		email, mobile *string
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&email,
		&mobile,
		&p.PasswordHash,
		&p.Bio,
		&p.SkillsToTeach,
		&p.SkillsToLearn,
		&p.SavedSkills,
		&p.IsProfileComplete,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	if email != nil {
		p.Email = *email
	}
	if mobile != nil {
		p.Mobile = *mobile
	}
	p.SkillsToTeach = nonNil(p.SkillsToTeach)
	p.SkillsToLearn = nonNil(p.SkillsToLearn)
	p.SavedSkills = nonNil(p.SavedSkills)
	return &p, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
