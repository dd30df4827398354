package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap-hub/internal/domain/posting"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SKILL POSTING COMMANDS
// Create, edit and delete postings. Only the owner may edit or delete.
// ══════════════════════════════════════════════════════════════════════════════

// Posting change actions carried by PostingChangedEvent.
const (
	PostingCreated = "created"
	PostingUpdated = "updated"
	PostingDeleted = "deleted"
)

// PostingInput carries the editable posting fields.
type PostingInput struct {
	Title       string
	Description string
	Category    string
	SkillType   string
}

// PostingHandler handles all posting commands.
type PostingHandler struct {
	postings  posting.Repository
	publisher shared.EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewPostingHandler creates a new PostingHandler.
func NewPostingHandler(postings posting.Repository, publisher shared.EventPublisher, log *logger.Logger) *PostingHandler {
	if publisher == nil {
		publisher = shared.NoopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PostingHandler{
		postings:  postings,
		publisher: publisher,
		log:       log.With(logger.Component("postings")),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new posting owned by userID.
func (h *PostingHandler) Create(ctx context.Context, userID string, in PostingInput) (*posting.Posting, error) {
	if userID == "" {
		return nil, shared.NotAuthenticated("posting", "Create", "sign in required")
	}

	now := h.now()
	p := &posting.Posting{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		SkillType:   posting.SkillType(in.SkillType),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := h.postings.Create(ctx, p); err != nil {
		return nil, shared.AsUpstream("posting", "Create", err)
	}
	h.publish(userID, p.ID, PostingCreated)
	return p, nil
}

// Update replaces the editable fields of a posting owned by userID.
func (h *PostingHandler) Update(ctx context.Context, userID, id string, in PostingInput) (*posting.Posting, error) {
	if userID == "" {
		return nil, shared.NotAuthenticated("posting", "Update", "sign in required")
	}

	p, err := h.postings.GetByID(ctx, id)
	if err != nil {
		return nil, shared.AsUpstream("posting", "Update", err)
	}
	if p.UserID != userID {
		return nil, shared.ErrPostingNotFound
	}

	p.Title = in.Title
	p.Description = in.Description
	p.Category = in.Category
	p.SkillType = posting.SkillType(in.SkillType)
	p.UpdatedAt = h.now()
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := h.postings.Update(ctx, p); err != nil {
		return nil, shared.AsUpstream("posting", "Update", err)
	}
	h.publish(userID, p.ID, PostingUpdated)
	return p, nil
}

// Delete removes a posting owned by userID.
func (h *PostingHandler) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return shared.NotAuthenticated("posting", "Delete", "sign in required")
	}
	if err := h.postings.Delete(ctx, id, userID); err != nil {
		return shared.AsUpstream("posting", "Delete", err)
	}
	h.publish(userID, id, PostingDeleted)
	return nil
}

func (h *PostingHandler) publish(userID, postingID, action string) {
	if err := h.publisher.Publish(shared.NewPostingChangedEvent(userID, postingID, action)); err != nil {
		h.log.Warn("failed to publish event", logger.Err(err))
	}
}
