package bot

import (
	"bytes"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/techadmin009/resumegenie/core/logger"
	"github.com/techadmin009/resumegenie/core/telegram/callbacks"
	tghelpers "github.com/techadmin009/resumegenie/core/telegram/helpers"
	"github.com/techadmin009/resumegenie/core/telegram/keyboard"
	"github.com/techadmin009/resumegenie/core/telegram/state"
	"github.com/techadmin009/resumegenie/internal/domain"
	"github.com/techadmin009/resumegenie/internal/service/resume"
)

const (
	stateName       state.State = "resume_name"
	stateContact    state.State = "resume_contact"
	stateEducation  state.State = "resume_education"
	stateExperience state.State = "resume_experience"
	stateSkills     state.State = "resume_skills"
	stateSummary    state.State = "resume_summary"
	stateTemplate   state.State = "resume_template"
)

type intakeStep struct {
	state  state.State
	field  resume.Field
	prompt string
}

func intakeSteps() []intakeStep {
	return []intakeStep{
		{stateName, resume.FieldName, stepPrompts[0]},
		{stateContact, resume.FieldContact, stepPrompts[1]},
		{stateEducation, resume.FieldEducation, stepPrompts[2]},
		{stateExperience, resume.FieldExperience, stepPrompts[3]},
		{stateSkills, resume.FieldSkills, stepPrompts[4]},
		{stateSummary, resume.FieldSummary, stepPrompts[5]},
	}
}

func (b *Bot) registerFlow() {
	steps := intakeSteps()
	for i := range steps {
		state.RegisterHandler(steps[i].state, b.stepHandler(steps, i))
	}
	state.RegisterHandler(stateTemplate, func(c tele.Context) error {
		// Template selection happens via inline buttons; nudge typed input back.
		return tghelpers.SendMD(c, textChooseTemplate)
	})
}

func (b *Bot) stepHandler(steps []intakeStep, i int) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		answer := strings.TrimSpace(c.Text())
		if answer == "" {
			return tghelpers.SendMD(c, steps[i].prompt)
		}
		b.drafts.SetField(userID, steps[i].field, answer)

		if i+1 < len(steps) {
			b.sessions.SetState(userID, steps[i+1].state)
			return tghelpers.SendMD(c, steps[i+1].prompt)
		}
		return b.finishIntake(c)
	}
}

func (b *Bot) beginIntake(c tele.Context) error {
	userID := c.Sender().ID
	b.sessions.Clear(userID)
	b.sessions.SetState(userID, stateName)
	return tghelpers.SendMD(c, stepPrompts[0])
}

func (b *Bot) finishIntake(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	if !b.premium.IsPremium(ctx, userID) {
		return b.deliverResume(c, domain.TemplateBasic)
	}

	b.sessions.SetState(userID, stateTemplate)
	return b.sendTemplateChooser(c)
}

func (b *Bot) sendTemplateChooser(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	tpls := domain.Templates()
	buttons := make([]keyboard.InlineBtn, 0, len(tpls))
	for _, tpl := range tpls {
		data, err := b.renderer.Preview(ctx, tpl)
		if err != nil {
			logger.SVCResumes.LogAttrs(ctx, slog.LevelWarn, "preview render failed",
				slog.String("event", "preview"),
				slog.String("template", string(tpl)),
				slog.String("err", err.Error()),
			)
		} else {
			doc := &tele.Document{
				File:     tele.FromReader(bytes.NewReader(data)),
				FileName: previewFileName(tpl),
			}
			if err := c.Send(doc); err != nil {
				logger.SVCResumes.LogAttrs(ctx, slog.LevelWarn, "preview send failed",
					slog.String("event", "preview"),
					slog.String("template", string(tpl)),
					slog.String("err", err.Error()),
				)
			}
		}
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   templateLabel(tpl),
			Unique: cbTemplate,
			Data:   string(tpl),
		})
	}

	markup := keyboard.InlineButtonsNPerRow(buttons, 2)
	return tghelpers.SendMD(c, textChooseTemplate, markup)
}

func (b *Bot) handleTemplateChoice(c tele.Context) error {
	tpl, ok := domain.ParseTemplate(callbacks.CallbackPayload(c))
	if !ok {
		_ = c.Respond(&tele.CallbackResponse{Text: "Unknown template"})
		return nil
	}
	return b.deliverResume(c, tpl)
}

func (b *Bot) deliverResume(c tele.Context, tpl domain.Template) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	draft, ok := b.drafts.Draft(userID)
	if !ok {
		b.sessions.Clear(userID)
		return tghelpers.SendMD(c, textDraftMissing)
	}

	_ = tghelpers.SendText(c, textGenerating)

	premium := b.premium.IsPremium(ctx, userID)
	data, err := b.renderer.Render(ctx, draft, tpl, premium)
	if err != nil {
		logger.SVCResumes.LogAttrs(ctx, slog.LevelError, "resume render failed",
			slog.String("event", "render"),
			slog.String("template", string(tpl)),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendMD(c, textGenericError)
	}

	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(data)),
		FileName: resumeFileName(draft),
	}
	if err := c.Send(doc); err != nil {
		return err
	}

	// Answers are deleted as soon as the PDF is out the door.
	b.drafts.Discard(ctx, userID)

	if !premium {
		return tghelpers.SendMD(c, textUpgradeReminder)
	}
	return nil
}

func templateLabel(tpl domain.Template) string {
	s := strings.ToLower(string(tpl))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
