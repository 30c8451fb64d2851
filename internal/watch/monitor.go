package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/techadmin009/resumegenie/core/logger"
)

// AttemptSource reports users with suspicious redeem failure counts.
type AttemptSource interface {
	SuspiciousUsers(threshold int) map[int64]int
	MaxAttempts() int
}

// History reports persisted failure counts, surviving restarts.
type History interface {
	CountFailuresSince(ctx context.Context, since time.Time) (map[int64]int, error)
}

// Notifier delivers alerts to the admin.
type Notifier interface {
	Notify(text string) error
}

// TelegramNotifier sends alerts to the configured admin chat.
type TelegramNotifier struct {
	bot     *tele.Bot
	adminID int64
}

// NewTelegramNotifier constructs a notifier bound to the admin chat.
func NewTelegramNotifier(bot *tele.Bot, adminID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, adminID: adminID}
}

// Notify sends a Markdown message to the admin, if one is configured.
func (n *TelegramNotifier) Notify(text string) error {
	if n.bot == nil || n.adminID == 0 {
		return nil
	}
	_, err := n.bot.Send(&tele.User{ID: n.adminID}, text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	return err
}

// Monitor periodically scans redeem failures and alerts the admin about
// users hammering /redeem.
type Monitor struct {
	source   AttemptSource
	history  History
	notifier Notifier
	interval time.Duration

	alerted map[int64]int
}

// NewMonitor constructs the security monitor. History may be nil; when set,
// persisted failure counts from the last day are merged into the scan.
func NewMonitor(source AttemptSource, history History, notifier Notifier, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Monitor{
		source:   source,
		history:  history,
		notifier: notifier,
		interval: interval,
		alerted:  make(map[int64]int),
	}
}

// Run ticks until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	logger.MON.Info("security monitor started",
		slog.String("event", "start"),
		slog.Duration("interval", m.interval),
	)

	for {
		select {
		case <-ctx.Done():
			logger.MON.Info("security monitor stopped", slog.String("event", "stop"))
			return
		case <-ticker.C:
			m.scan(ctx)
		}
	}
}

func (m *Monitor) scan(ctx context.Context) {
	threshold := 2 * m.source.MaxAttempts()
	suspects := m.source.SuspiciousUsers(threshold)

	if m.history != nil {
		counts, err := m.history.CountFailuresSince(ctx, time.Now().Add(-24*time.Hour))
		if err != nil {
			logger.MON.LogAttrs(ctx, slog.LevelWarn, "history lookup failed",
				slog.String("event", "scan"),
				slog.String("err", err.Error()),
			)
		} else {
			for id, n := range counts {
				if n >= threshold && n > suspects[id] {
					suspects[id] = n
				}
			}
		}
	}

	fresh := make(map[int64]int)
	for id, count := range suspects {
		if count > m.alerted[id] {
			fresh[id] = count
		}
	}
	if len(fresh) == 0 {
		return
	}

	ids := make([]int64, 0, len(fresh))
	for id := range fresh {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	b.WriteString("🚨 *Security Alert*\n\nExcessive failed key redemptions:\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "• user `%d`: %d failed attempts\n", id, fresh[id])
		m.alerted[id] = fresh[id]
	}

	if err := m.notifier.Notify(b.String()); err != nil {
		logger.MON.LogAttrs(ctx, slog.LevelWarn, "alert delivery failed",
			slog.String("event", "alert"),
			slog.String("err", err.Error()),
		)
		return
	}

	logger.MON.LogAttrs(ctx, slog.LevelWarn, "redeem abuse alert sent",
		slog.String("event", "alert"),
		slog.Int("count", len(fresh)),
	)
}
