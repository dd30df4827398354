package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/skillswap/skillswap-hub/internal/domain/posting"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// PostingRepository implements posting.Repository for PostgreSQL.
type PostingRepository struct {
	conn *Connection
}

// NewPostingRepository creates a new PostingRepository.
func NewPostingRepository(conn *Connection) *PostingRepository {
	return &PostingRepository{conn: conn}
}

const postingColumns = `id, user_id, title, description, category, skill_type, created_at, updated_at`

// Create inserts a posting.
func (r *PostingRepository) Create(ctx context.Context, p *posting.Posting) error {
	_, err := r.conn.Pool().Exec(ctx, `
		INSERT INTO skill_postings (`+postingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.UserID, p.Title, p.Description, p.Category, string(p.SkillType), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create posting: %w", err)
	}
	return nil
}

// GetByID returns a posting.
func (r *PostingRepository) GetByID(ctx context.Context, id string) (*posting.Posting, error) {
	row := r.conn.Pool().QueryRow(ctx, `SELECT `+postingColumns+` FROM skill_postings WHERE id = $1`, id)
	return scanPosting(row)
}

// List возвращает объявления по фильтру f, новые первыми.
func (r *PostingRepository) List(ctx context.Context, f posting.Filter) ([]*posting.Posting, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.UserID != "" {
		add("user_id = $%d", f.UserID)
	}
	if f.SkillType != "" {
		add("skill_type = $%d", string(f.SkillType))
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Search != "" {
		add(`(title ILIKE $%[1]d ESCAPE '\' OR description ILIKE $%[1]d ESCAPE '\')`, "%"+escapeLike(f.Search)+"%")
	}

	query := `SELECT ` + postingColumns + ` FROM skill_postings`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.conn.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}
	defer rows.Close()

	out := []*posting.Posting{}
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites a posting owned by p.UserID.
func (r *PostingRepository) Update(ctx context.Context, p *posting.Posting) error {
	tag, err := r.conn.Pool().Exec(ctx, `
		UPDATE skill_postings SET
			title = $1, description = $2, category = $3, skill_type = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`, p.Title, p.Description, p.Category, string(p.SkillType), p.UpdatedAt, p.ID, p.UserID)
	if err != nil {
		return fmt.Errorf("failed to update posting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrPostingNotFound
	}
	return nil
}

// Delete removes a posting owned by userID.
func (r *PostingRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.conn.Pool().Exec(ctx,
		`DELETE FROM skill_postings WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete posting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrPostingNotFound
	}
	return nil
}

func scanPosting(row pgx.Row) (*posting.Posting, error) {
	var (
		p         posting.Posting
		skillType string
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.Category, &skillType, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrPostingNotFound
		}
		return nil, fmt.Errorf("failed to scan posting: %w", err)
	}
	p.SkillType = posting.SkillType(skillType)
	return &p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует s для буквального поиска в шаблоне LIKE.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
