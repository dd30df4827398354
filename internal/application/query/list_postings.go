package query

import (
	"context"
	"strings"

	"github.com/skillswap/skillswap-hub/internal/domain/posting"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// ListPostingsQuery - фильтр объявлений. Пустые поля не фильтруют.
type ListPostingsQuery struct {
	UserID    string
	SkillType string
	Category  string
	Search    string
}

// ListPostingsHandler lists skill postings.
type ListPostingsHandler struct {
	postings posting.Repository
}

// NewListPostingsHandler creates a new ListPostingsHandler.
func NewListPostingsHandler(postings posting.Repository) *ListPostingsHandler {
	return &ListPostingsHandler{postings: postings}
}

// Handle возвращает подходящие объявления, новые первыми.
func (h *ListPostingsHandler) Handle(ctx context.Context, q ListPostingsQuery) ([]*posting.Posting, error) {
	st := posting.SkillType(q.SkillType)
	if st != "" && !st.IsValid() {
		return nil, shared.ErrPostingInvalidType
	}
	list, err := h.postings.List(ctx, posting.Filter{
		UserID:    q.UserID,
		SkillType: st,
		Category:  q.Category,
		Search:    q.Search,
	})
	if err != nil {
		return nil, shared.AsUpstream("posting", "List", err)
	}
	if list == nil {
		list = []*posting.Posting{}
	}
	return list, nil
}

// GetPostingHandler возвращает одно объявление.
type GetPostingHandler struct {
	postings posting.Repository
}

// NewGetPostingHandler creates a new GetPostingHandler.
func NewGetPostingHandler(postings posting.Repository) *GetPostingHandler {
	return &GetPostingHandler{postings: postings}
}

// Handle возвращает объявление по id или ErrPostingNotFound.
func (h *GetPostingHandler) Handle(ctx context.Context, id string) (*posting.Posting, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.ErrPostingNotFound
	}
	p, err := h.postings.GetByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrPostingNotFound
		}
		return nil, shared.AsUpstream("posting", "Get", err)
	}
	return p, nil
}
