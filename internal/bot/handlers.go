package bot

import (
	"bytes"
	"errors"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	coretelegram "github.com/techadmin009/resumegenie/core/telegram"
	"github.com/techadmin009/resumegenie/core/telegram/commands"
	"github.com/techadmin009/resumegenie/core/telegram/format"
	tghelpers "github.com/techadmin009/resumegenie/core/telegram/helpers"
	"github.com/techadmin009/resumegenie/core/telegram/keyboard"
	"github.com/techadmin009/resumegenie/core/telegram/middleware"
	"github.com/techadmin009/resumegenie/core/telegram/state"
	"github.com/techadmin009/resumegenie/core/telegram/ui"
	appconfig "github.com/techadmin009/resumegenie/internal/config"
	"github.com/techadmin009/resumegenie/internal/domain"
	"github.com/techadmin009/resumegenie/internal/pdf"
	"github.com/techadmin009/resumegenie/internal/service/premium"
	"github.com/techadmin009/resumegenie/internal/service/resume"
	"github.com/techadmin009/resumegenie/internal/storage"
)

const (
	cbNewResume       = "new_resume"
	cbPremiumFeatures = "premium_features"
	cbShowHelp        = "show_help"
	cbBackToMain      = "back_to_main"
	cbGetPremium      = "get_premium"
	cbPrivacyPolicy   = "privacy_policy"
	cbTemplate        = "template"
)

// Bot bundles the handlers with the services they depend on.
type Bot struct {
	cfg      *appconfig.Config
	sessions state.Manager
	drafts   *resume.Service
	premium  *premium.Service
	plans    *storage.PlanRepo
	renderer *pdf.Renderer
}

var _ ui.FallbackProvider = (*Bot)(nil)

// sessionStates adapts the session manager to the state middleware.
type sessionStates struct{ mgr state.Manager }

func (s sessionStates) GetState(userID int64) string {
	return string(s.mgr.GetState(userID))
}

// NewBot wires the handler set.
func NewBot(
	cfg *appconfig.Config,
	sessions state.Manager,
	drafts *resume.Service,
	prem *premium.Service,
	plans *storage.PlanRepo,
	renderer *pdf.Renderer,
) *Bot {
	return &Bot{
		cfg:      cfg,
		sessions: sessions,
		drafts:   drafts,
		premium:  prem,
		plans:    plans,
		renderer: renderer,
	}
}

// Register wires commands, callbacks and FSM handlers into the registry.
func (b *Bot) Register(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     b.handleStart,
		Description: "Start and show the main menu",
	})
	reg.RegisterCommand("/newresume", commands.Command{
		Handler:     b.handleNewResume,
		Description: "Build a new resume",
	})
	reg.RegisterCommand("/premium", commands.Command{
		Handler:     b.handlePremium,
		Description: "Premium features and pricing",
	})
	reg.RegisterCommand("/redeem", commands.Command{
		Handler:     b.handleRedeem,
		Description: "Activate a premium key",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     b.handleHelp,
		Description: "How to use the bot",
	})
	reg.RegisterCommand("/privacy", commands.Command{
		Handler:     b.handlePrivacy,
		Description: "Privacy policy",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     b.handleCancel,
		Description: "Cancel the current resume",
	})
	reg.RegisterCommand("/generatekey", commands.Command{
		Handler:     b.handleGenerateKey,
		Description: "Generate a premium key",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(cbNewResume, b.handleNewResume)
	_ = reg.RegisterCallback(cbPremiumFeatures, b.handlePremium)
	_ = reg.RegisterCallback(cbGetPremium, b.handlePremium)
	_ = reg.RegisterCallback(cbShowHelp, b.handleHelp)
	_ = reg.RegisterCallback(cbPrivacyPolicy, b.handlePrivacy)
	_ = reg.RegisterCallback(cbBackToMain, b.handleStart)

	// Template buttons are only honoured while the user is choosing one;
	// presses on stale keyboards are dropped.
	templateGuard := middleware.State(sessionStates{b.sessions}, string(stateTemplate))
	_ = reg.RegisterCallback(cbTemplate, templateGuard(b.handleTemplateChoice))

	reg.SetTextFallback(b.UnknownText())

	b.registerFlow()
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	var (
		isPremium bool
		expiry    string
	)
	if sub, err := tghelpers.CurrentSubscription(ctx, b.premium, userID); err == nil && sub.Active(time.Now()) {
		isPremium = true
		expiry = tghelpers.FormatExpiry(sub.ExpiresAt)
	}

	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "📝 Create New Resume", Unique: cbNewResume}},
		[]keyboard.InlineBtn{{Text: "⭐ Premium Features", Unique: cbPremiumFeatures}},
		[]keyboard.InlineBtn{
			{Text: "❓ Help", Unique: cbShowHelp},
			{Text: "🔒 Privacy Policy", Unique: cbPrivacyPolicy},
		},
	)

	first := ""
	if u := c.Sender(); u != nil {
		first = u.FirstName
	}
	if escaped, err := format.EscapeMarkdown(first, format.MarkdownV1, ""); err == nil {
		first = escaped
	}
	return tghelpers.SendMD(c, textWelcome(first, isPremium, expiry), markup)
}

func (b *Bot) handleNewResume(c tele.Context) error {
	return b.beginIntake(c)
}

func (b *Bot) handlePremium(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	var lines []planLine
	if plans, err := b.plans.List(ctx); err == nil {
		for _, p := range plans {
			lines = append(lines, planLine{Title: p.Title, Price: p.PriceUSD})
		}
	}

	var (
		isPremium bool
		expiry    string
	)
	if sub, err := tghelpers.CurrentSubscription(ctx, b.premium, userID); err == nil && sub.Active(time.Now()) {
		isPremium = true
		expiry = tghelpers.FormatExpiry(sub.ExpiresAt)
	}

	if err := tghelpers.SendMD(c, textPremiumInfo(lines, isPremium, expiry)); err != nil {
		return err
	}
	if isPremium {
		return nil
	}
	return b.sendPremiumPreviews(c)
}

func (b *Bot) sendPremiumPreviews(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	for _, tpl := range domain.PremiumTemplates() {
		data, err := b.renderer.Preview(ctx, tpl)
		if err != nil {
			continue
		}
		doc := &tele.Document{
			File:     tele.FromReader(bytes.NewReader(data)),
			FileName: previewFileName(tpl),
		}
		_ = c.Send(doc)
	}
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "⭐ Get Premium", Unique: cbGetPremium},
	})
	return tghelpers.SendMD(c, textUpgradeReminder, markup)
}

func (b *Bot) handleRedeem(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	raw := strings.TrimSpace(c.Message().Payload)
	if raw == "" {
		return tghelpers.SendMD(c, textRedeemUsage)
	}

	sub, err := b.premium.Redeem(ctx, userID, raw)
	if err != nil {
		var limited *premium.RateLimitedError
		switch {
		case errors.As(err, &limited):
			return tghelpers.SendMD(c, textRateLimited(limited.Wait.Round(time.Second).String()))
		case errors.Is(err, premium.ErrBadFormat), errors.Is(err, premium.ErrBadSignature):
			return tghelpers.SendMD(c, textRedeemBadKey)
		case errors.Is(err, premium.ErrUnknownKey):
			return tghelpers.SendMD(c, textRedeemUnknown)
		case errors.Is(err, premium.ErrExpiredKey):
			return tghelpers.SendMD(c, textRedeemExpired)
		default:
			return tghelpers.SendMD(c, textRedeemInternal)
		}
	}

	return tghelpers.SendMD(c, textRedeemed(tghelpers.FormatExpiry(sub.ExpiresAt)))
}

func (b *Bot) handleGenerateKey(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	var validFor time.Duration
	if raw := strings.TrimSpace(c.Message().Payload); raw != "" {
		d, err := tghelpers.ParseKeyDuration(raw)
		if err != nil {
			return tghelpers.SendMD(c, "Usage: `/generatekey [days]` — e.g. `/generatekey 30`, `/generatekey 3m`, `/generatekey 1y`")
		}
		validFor = d
	}

	key, err := b.premium.Issue(ctx, validFor)
	if err != nil {
		return tghelpers.SendMD(c, textGenericError)
	}
	return tghelpers.SendMD(c, textKeyIssued(key.Key, key.ValidDays, tghelpers.FormatExpiry(key.ExpiresAt)))
}

func (b *Bot) handleHelp(c tele.Context) error {
	return tghelpers.SendMD(c, textHelp)
}

func (b *Bot) handlePrivacy(c tele.Context) error {
	return tghelpers.SendMD(c, textPrivacy)
}

func (b *Bot) handleCancel(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID
	if !b.sessions.InProgress(userID) {
		return tghelpers.SendMD(c, textNothingToCancel)
	}
	b.drafts.Discard(ctx, userID)
	return tghelpers.SendMD(c, textCancelled)
}

// UnknownText handles free text outside any conversation.
func (b *Bot) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendMD(c, textUnknown)
	}
}

// UnknownDocument handles documents the bot has no use for.
func (b *Bot) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendMD(c, textUnknown)
	}
}

// UnknownCallback handles callbacks with no registered handler.
func (b *Bot) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		_ = c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
		return nil
	}
}
