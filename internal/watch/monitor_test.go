package watch

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/techadmin009/resumegenie/core/logger"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger(nil)
	os.Exit(m.Run())
}

type fakeSource struct {
	suspects map[int64]int
	max      int
}

func (f *fakeSource) SuspiciousUsers(threshold int) map[int64]int {
	out := make(map[int64]int)
	for id, n := range f.suspects {
		if n >= threshold {
			out[id] = n
		}
	}
	return out
}

func (f *fakeSource) MaxAttempts() int { return f.max }

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(text string) error {
	f.messages = append(f.messages, text)
	return nil
}

func TestScanAlertsOnThreshold(t *testing.T) {
	source := &fakeSource{max: 3, suspects: map[int64]int{
		11: 7, // above 2*max
		12: 2, // below
	}}
	notifier := &fakeNotifier{}
	m := NewMonitor(source, nil, notifier, time.Minute)

	m.scan(context.Background())

	if len(notifier.messages) != 1 {
		t.Fatalf("got %d alerts, want 1", len(notifier.messages))
	}
	msg := notifier.messages[0]
	if !strings.Contains(msg, "11") || !strings.Contains(msg, "7 failed attempts") {
		t.Errorf("alert missing offender details: %q", msg)
	}
	if strings.Contains(msg, "user `12`") {
		t.Errorf("alert includes user below threshold: %q", msg)
	}
}

func TestScanDoesNotRepeatAlerts(t *testing.T) {
	source := &fakeSource{max: 3, suspects: map[int64]int{11: 7}}
	notifier := &fakeNotifier{}
	m := NewMonitor(source, nil, notifier, time.Minute)

	m.scan(context.Background())
	m.scan(context.Background())
	if len(notifier.messages) != 1 {
		t.Fatalf("got %d alerts for unchanged counts, want 1", len(notifier.messages))
	}

	// New failures trigger a fresh alert.
	source.suspects[11] = 9
	m.scan(context.Background())
	if len(notifier.messages) != 2 {
		t.Fatalf("got %d alerts after new failures, want 2", len(notifier.messages))
	}
}

func TestScanQuietWhenClean(t *testing.T) {
	source := &fakeSource{max: 3, suspects: map[int64]int{}}
	notifier := &fakeNotifier{}
	m := NewMonitor(source, nil, notifier, time.Minute)

	m.scan(context.Background())
	if len(notifier.messages) != 0 {
		t.Fatalf("got %d alerts for clean state, want 0", len(notifier.messages))
	}
}
