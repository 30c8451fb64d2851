package resume

import (
	"context"
	"log/slog"
	"strings"

	"github.com/techadmin009/resumegenie/core/logger"
	"github.com/techadmin009/resumegenie/core/telegram/state"
	"github.com/techadmin009/resumegenie/internal/domain"
)

// Field names a single intake answer stored in the conversation session.
type Field string

const (
	FieldName       Field = "resume_name"
	FieldContact    Field = "resume_contact"
	FieldEducation  Field = "resume_education"
	FieldExperience Field = "resume_experience"
	FieldSkills     Field = "resume_skills"
	FieldSummary    Field = "resume_summary"
)

// Service keeps resume drafts inside the FSM session so answers never
// outlive the conversation that produced them.
type Service struct {
	sessions state.Manager
}

// New constructs a resume draft Service on top of the session manager.
func New(sessions state.Manager) *Service {
	return &Service{sessions: sessions}
}

// SetField stores a trimmed answer for the given user.
func (s *Service) SetField(userID int64, field Field, value string) {
	s.sessions.SetTemp(userID, string(field), strings.TrimSpace(value))
}

// Field returns a previously stored answer.
func (s *Service) Field(userID int64, field Field) string {
	v, ok := s.sessions.GetTemp(userID, string(field))
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// Draft assembles the collected answers. The second return value reports
// whether every intake step has been answered.
func (s *Service) Draft(userID int64) (domain.Resume, bool) {
	r := domain.Resume{
		Name:       s.Field(userID, FieldName),
		Contact:    s.Field(userID, FieldContact),
		Education:  s.Field(userID, FieldEducation),
		Experience: s.Field(userID, FieldExperience),
		Skills:     s.Field(userID, FieldSkills),
		Summary:    s.Field(userID, FieldSummary),
	}
	return r, r.Complete()
}

// Discard drops the whole session, wiping both the draft and the FSM state.
func (s *Service) Discard(ctx context.Context, userID int64) {
	s.sessions.Clear(userID)
	logger.SVCResumes.LogAttrs(ctx, slog.LevelInfo, "draft discarded",
		slog.String("event", "draft.discard"),
		slog.Int64("user_id", userID),
	)
}
