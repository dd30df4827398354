package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skillswap/skillswap-hub/internal/application/command"
	"github.com/skillswap/skillswap-hub/internal/application/query"
	"github.com/skillswap/skillswap-hub/internal/domain/overview"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type userResponse struct {
	User query.ProfileDTO `json:"user"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	res, err := s.deps.SignUp.Handle(r.Context(), command.SignUpCommand{
		Name:     req.Name,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	res, err := s.deps.SignIn.Handle(r.Context(), command.SignInCommand{
		Email:    req.Email,
		Mobile:   req.Mobile,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.SignOut.Handle(r.Context(), tokenFrom(r.Context())); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.handleGetProfile(w, r)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE & SAVED SKILLS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type updateProfileRequest struct {
	Name          *string   `json:"name"`
	Bio           *string   `json:"bio"`
	SkillsToTeach *[]string `json:"skillsToTeach"`
	SkillsToLearn *[]string `json:"skillsToLearn"`
}

type toggleSavedRequest struct {
	SkillName string `json:"skillName"`
}

type savedSkillsResponse struct {
	SavedSkills []string `json:"savedSkills"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetProfile.Handle(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: dto})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	dto, err := s.deps.UpdateProfile.Handle(r.Context(), command.UpdateProfileCommand{
		UserID:        UserIDFrom(r.Context()),
		Name:          req.Name,
		Bio:           req.Bio,
		SkillsToTeach: req.SkillsToTeach,
		SkillsToLearn: req.SkillsToLearn,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: dto})
}

func (s *Server) handleGetSavedSkills(w http.ResponseWriter, r *http.Request) {
	saved, err := s.deps.GetSavedSkills.Handle(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, savedSkillsResponse{SavedSkills: saved})
}

func (s *Server) handleToggleSavedSkill(w http.ResponseWriter, r *http.Request) {
	var req toggleSavedRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	saved, err := s.deps.ToggleSavedSkill.Handle(r.Context(), command.ToggleSavedSkillCommand{
		UserID:    UserIDFrom(r.Context()),
		SkillName: req.SkillName,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, savedSkillsResponse{SavedSkills: saved})
}

// ══════════════════════════════════════════════════════════════════════════════
// SKILL BOARD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", overview.DefaultPage)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	limit, err := intParam(r, "limit", overview.DefaultPageSize)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	res, err := s.deps.GetOverview.Handle(r.Context(), query.GetOverviewQuery{
		UserID: UserIDFrom(r.Context()),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.deps.GetCategories.Handle(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: cats})
}

// ══════════════════════════════════════════════════════════════════════════════
// SKILL POSTING HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type postingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	SkillType   string `json:"skillType"`
}

func (p postingRequest) input() command.PostingInput {
	return command.PostingInput{
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		SkillType:   p.SkillType,
	}
}

func (s *Server) handleListPostings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := s.deps.ListPostings.Handle(r.Context(), query.ListPostingsQuery{
		UserID:    q.Get("userId"),
		SkillType: q.Get("type"),
		Category:  q.Get("category"),
		Search:    q.Get("search"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"postings": list})
}

func (s *Server) handleGetPosting(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.GetPosting.Handle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posting": p})
}

func (s *Server) handleCreatePosting(w http.ResponseWriter, r *http.Request) {
	var req postingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	p, err := s.deps.Postings.Create(r.Context(), UserIDFrom(r.Context()), req.input())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"posting": p})
}

func (s *Server) handleUpdatePosting(w http.ResponseWriter, r *http.Request) {
	var req postingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	p, err := s.deps.Postings.Update(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "id"), req.input())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posting": p})
}

func (s *Server) handleDeletePosting(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Postings.Delete(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
