package bot

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/techadmin009/resumegenie/core/logger"
	"github.com/techadmin009/resumegenie/core/telegram/middleware"
	"github.com/techadmin009/resumegenie/core/telegram/state"
	appconfig "github.com/techadmin009/resumegenie/internal/config"
	"github.com/techadmin009/resumegenie/internal/domain"
	"github.com/techadmin009/resumegenie/internal/pdf"
	premiumsvc "github.com/techadmin009/resumegenie/internal/service/premium"
	resumesvc "github.com/techadmin009/resumegenie/internal/service/resume"
	"github.com/techadmin009/resumegenie/internal/storage"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger(nil)
	os.Exit(m.Run())
}

type mockContext struct {
	tele.Context

	sender *tele.User
	text   string
	store  map[string]interface{}
	sent   []interface{}
}

func newMockContext(userID int64, text string) *mockContext {
	return &mockContext{
		sender: &tele.User{ID: userID, FirstName: "Test"},
		text:   text,
		store:  map[string]interface{}{},
	}
}

func (m *mockContext) Sender() *tele.User { return m.sender }

func (m *mockContext) Chat() *tele.Chat { return &tele.Chat{ID: m.sender.ID} }

func (m *mockContext) Update() tele.Update { return tele.Update{ID: 1} }

func (m *mockContext) Text() string { return m.text }

func (m *mockContext) Message() *tele.Message {
	return &tele.Message{Text: m.text}
}

func (m *mockContext) Get(key string) interface{} { return m.store[key] }

func (m *mockContext) Set(key string, value interface{}) { m.store[key] = value }

func (m *mockContext) Send(what interface{}, _ ...interface{}) error {
	m.sent = append(m.sent, what)
	return nil
}

func (m *mockContext) Respond(_ ...*tele.CallbackResponse) error { return nil }

func (m *mockContext) lastText() string {
	for i := len(m.sent) - 1; i >= 0; i-- {
		if s, ok := m.sent[i].(string); ok {
			return s
		}
	}
	return ""
}

type nopKeys struct{}

func (nopKeys) Insert(context.Context, domain.PremiumKey) error { return nil }
func (nopKeys) Get(context.Context, string) (domain.PremiumKey, error) {
	return domain.PremiumKey{}, storage.ErrNotFound
}
func (nopKeys) Delete(context.Context, string) error { return nil }

type memSubs struct {
	subs map[int64]domain.Subscription
}

func (m *memSubs) Upsert(_ context.Context, sub domain.Subscription) error {
	m.subs[sub.UserID] = sub
	return nil
}

func (m *memSubs) Get(_ context.Context, userID int64) (domain.Subscription, error) {
	sub, ok := m.subs[userID]
	if !ok {
		return domain.Subscription{}, storage.ErrNotFound
	}
	return sub, nil
}

type nopEvents struct{}

func (nopEvents) Insert(context.Context, domain.SecurityEvent) error { return nil }

func newTestBot(t *testing.T) (*Bot, state.Manager, *memSubs) {
	t.Helper()
	sessions := state.NewMemoryManager()
	subs := &memSubs{subs: map[int64]domain.Subscription{}}
	prem := premiumsvc.New(premiumsvc.Config{Secret: "s"}, nopKeys{}, subs, nopEvents{})
	// Fonts intentionally point nowhere: flow tests never reach rendering.
	renderer := pdf.New(pdf.Config{FontDir: t.TempDir(), FontRegular: "r.ttf", FontBold: "b.ttf"})
	b := NewBot(&appconfig.Config{}, sessions, resumesvc.New(sessions), prem, nil, renderer)
	b.registerFlow()
	return b, sessions, subs
}

func TestIntakeProgression(t *testing.T) {
	b, sessions, _ := newTestBot(t)
	const userID int64 = 100

	c := newMockContext(userID, "")
	if err := b.beginIntake(c); err != nil {
		t.Fatalf("beginIntake: %v", err)
	}
	if got := sessions.GetState(userID); got != stateName {
		t.Fatalf("state after begin = %q, want %q", got, stateName)
	}

	answers := []struct {
		text  string
		next  state.State
		field resumesvc.Field
	}{
		{"Jordan Smith", stateContact, resumesvc.FieldName},
		{"jordan@example.com", stateEducation, resumesvc.FieldContact},
		{"B.A. Economics", stateExperience, resumesvc.FieldEducation},
		{"Analyst at Acme", stateSkills, resumesvc.FieldExperience},
		{"SQL, Excel", stateSummary, resumesvc.FieldSkills},
	}

	for _, step := range answers {
		c := newMockContext(userID, step.text)
		if err := sessions.ManagerHandler(c); err != nil {
			t.Fatalf("step %q: %v", step.text, err)
		}
		if got := sessions.GetState(userID); got != step.next {
			t.Fatalf("after %q state = %q, want %q", step.text, got, step.next)
		}
		if v, _ := sessions.GetTemp(userID, string(step.field)); v != step.text {
			t.Fatalf("field %s = %v, want %q", step.field, v, step.text)
		}
	}
}

func TestIntakeEmptyAnswerRepeatsPrompt(t *testing.T) {
	b, sessions, _ := newTestBot(t)
	const userID int64 = 101

	_ = b.beginIntake(newMockContext(userID, ""))

	c := newMockContext(userID, "   ")
	if err := sessions.ManagerHandler(c); err != nil {
		t.Fatalf("ManagerHandler: %v", err)
	}
	if got := sessions.GetState(userID); got != stateName {
		t.Fatalf("state = %q, want still %q", got, stateName)
	}
	if !strings.Contains(c.lastText(), "Step 1 of 7") {
		t.Errorf("expected step 1 prompt repeated, got %q", c.lastText())
	}
}

func TestPremiumUserGetsTemplateChooser(t *testing.T) {
	b, sessions, subs := newTestBot(t)
	const userID int64 = 102

	subs.subs[userID] = domain.Subscription{
		UserID:    userID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	_ = b.beginIntake(newMockContext(userID, ""))
	answers := []string{"Jordan", "mail", "school", "job", "skills", "summary"}
	var last *mockContext
	for _, a := range answers {
		last = newMockContext(userID, a)
		if err := sessions.ManagerHandler(last); err != nil {
			t.Fatalf("answer %q: %v", a, err)
		}
	}

	if got := sessions.GetState(userID); got != stateTemplate {
		t.Fatalf("state after summary = %q, want %q", got, stateTemplate)
	}
	if !strings.Contains(last.lastText(), "Choose your template") {
		t.Errorf("expected template chooser, got %q", last.lastText())
	}
}

func TestCancelClearsDraft(t *testing.T) {
	b, sessions, _ := newTestBot(t)
	const userID int64 = 103

	_ = b.beginIntake(newMockContext(userID, ""))
	_ = sessions.ManagerHandler(newMockContext(userID, "Jordan"))

	c := newMockContext(userID, "/cancel")
	if err := b.handleCancel(c); err != nil {
		t.Fatalf("handleCancel: %v", err)
	}
	if sessions.InProgress(userID) {
		t.Errorf("conversation still in progress after cancel")
	}
	if _, ok := sessions.GetTemp(userID, string(resumesvc.FieldName)); ok {
		t.Errorf("draft data survived cancel")
	}

	c2 := newMockContext(userID, "/cancel")
	if err := b.handleCancel(c2); err != nil {
		t.Fatalf("handleCancel (idle): %v", err)
	}
	if !strings.Contains(c2.lastText(), "nothing to cancel") {
		t.Errorf("expected nothing-to-cancel reply, got %q", c2.lastText())
	}
}

func TestTemplateGuardIgnoresStalePresses(t *testing.T) {
	b, sessions, _ := newTestBot(t)
	const userID int64 = 105

	guard := middleware.State(sessionStates{b.sessions}, string(stateTemplate))
	ran := false
	h := guard(func(c tele.Context) error {
		ran = true
		return nil
	})

	// Idle user pressing a leftover template button: dropped.
	if err := h(newMockContext(userID, "")); err != nil {
		t.Fatalf("guarded handler: %v", err)
	}
	if ran {
		t.Fatal("handler ran for a user outside template selection")
	}

	sessions.SetState(userID, stateTemplate)
	if err := h(newMockContext(userID, "")); err != nil {
		t.Fatalf("guarded handler: %v", err)
	}
	if !ran {
		t.Fatal("handler did not run for a user choosing a template")
	}
}

func TestTemplateChoiceWithoutDraft(t *testing.T) {
	b, sessions, subs := newTestBot(t)
	const userID int64 = 104

	subs.subs[userID] = domain.Subscription{
		UserID:    userID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	sessions.SetState(userID, stateTemplate)

	c := newMockContext(userID, "")
	if err := b.deliverResume(c, domain.TemplateModern); err != nil {
		t.Fatalf("deliverResume: %v", err)
	}
	if !strings.Contains(c.lastText(), "no longer available") {
		t.Errorf("expected missing-draft reply, got %q", c.lastText())
	}
	if sessions.HasState(userID) {
		t.Errorf("state not cleared after missing draft")
	}
}
