package monitor

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"prowl/internal/match"
	"prowl/internal/model"
	"prowl/internal/service"
)

// previewLength bounds the message excerpt written to the log.
const previewLength = 100

// Options tunes the processing loop. Reloadable together with the engine.
type Options struct {
	NotificationDelay    time.Duration
	MaxAgeDays           int
	SaveMatches          bool
	NotificationsEnabled bool
}

// Stats tracks counters for one processing run.
type Stats struct {
	MessagesScanned int
	MatchesFound    int
	SkippedOld      int
	NoText          int
	NoMatch         int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.MessagesScanned += other.MessagesScanned
	s.MatchesFound += other.MatchesFound
	s.SkippedOld += other.SkippedOld
	s.NoText += other.NoText
	s.NoMatch += other.NoMatch
}

// Monitor feeds messages through the matching engine and fans matches out
// to storage and notifications. The engine and options can be swapped at
// runtime for config hot reload; everything else is fixed at construction.
type Monitor struct {
	store    service.MatchStore
	notifier service.Notifier
	now      func() time.Time
	matcher  *match.ProductMatcher
	opts     Options
	mu       sync.RWMutex
}

// New creates a monitor. store and notifier may be nil, disabling
// persistence and notifications respectively.
func New(matcher *match.ProductMatcher, store service.MatchStore, notifier service.Notifier, opts Options) *Monitor {
	return &Monitor{
		matcher:  matcher,
		store:    store,
		notifier: notifier,
		opts:     opts,
		now:      time.Now,
	}
}

// UpdateEngine atomically swaps the matching engine and loop options.
// In-flight messages finish against the engine they started with.
func (m *Monitor) UpdateEngine(matcher *match.ProductMatcher, opts Options) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matcher = matcher
	m.opts = opts
}

func (m *Monitor) snapshot() (*match.ProductMatcher, Options) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.matcher, m.opts
}

// Run consumes messages until the channel closes or ctx is done, and
// returns the accumulated stats. Processing failures are logged, never
// fatal.
func (m *Monitor) Run(ctx context.Context, messages <-chan model.Message) Stats {
	var stats Stats

	for {
		select {
		case <-ctx.Done():
			return stats
		case msg, ok := <-messages:
			if !ok {
				return stats
			}
			m.ProcessMessage(ctx, msg, &stats)
		}
	}
}

// ProcessMessage runs one message through the engine and handles every
// resulting match: persist, then notify with the configured delay between
// notifications for the same message.
func (m *Monitor) ProcessMessage(ctx context.Context, msg model.Message, stats *Stats) {
	matcher, opts := m.snapshot()

	stats.MessagesScanned++

	if m.tooOld(msg, opts) {
		slog.Debug("Skipping message: too old",
			"channel", msg.Channel,
			"message_id", msg.ID,
			"posted_at", msg.PostedAt)
		stats.SkippedOld++
		return
	}

	if msg.Text == "" {
		slog.Debug("Skipping message: no text", "channel", msg.Channel, "message_id", msg.ID)
		stats.NoText++
		return
	}

	slog.Info("Scanning message",
		"channel", msg.Channel,
		"message_id", msg.ID,
		"preview", preview(msg.Text))

	results := matcher.Match(msg.Text)
	if len(results) == 0 {
		stats.NoMatch++
		return
	}

	slog.Info("Found product matches",
		"channel", msg.Channel,
		"message_id", msg.ID,
		"count", len(results))

	link := MessageLink(msg.Channel, msg.ID)

	for i, result := range results {
		slog.Info("Product matched",
			"product", result.ProductName,
			"keywords", strings.Join(result.MatchedKeywords, ", "),
			"price", result.Price,
			"currency", result.Currency)

		if opts.SaveMatches && m.store != nil {
			m.saveMatch(ctx, msg, result, link)
		}

		if opts.NotificationsEnabled && result.Notify && m.notifier != nil {
			m.sendNotification(ctx, msg, result, link)

			// Space out notifications for the same message to stay under
			// messenger rate limits.
			if i < len(results)-1 && opts.NotificationDelay > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(opts.NotificationDelay):
				}
			}
		}

		stats.MatchesFound++
	}
}

func (m *Monitor) saveMatch(ctx context.Context, msg model.Message, result model.MatchResult, link string) {
	record := &model.MatchRecord{
		ID:              uuid.NewString(),
		ProductName:     result.ProductName,
		MatchedKeywords: result.MatchedKeywords,
		Price:           result.Price,
		Currency:        result.Currency,
		Channel:         msg.Channel,
		MessageID:       msg.ID,
		MessageText:     msg.Text,
		MessageLink:     link,
		MessageDate:     msg.PostedAt,
		Notify:          result.Notify,
		CreatedAt:       m.now(),
	}

	if err := m.store.SaveMatch(ctx, record); err != nil {
		slog.Error("Failed to save match",
			"product", result.ProductName,
			"channel", msg.Channel,
			"error", err)
	}
}

func (m *Monitor) sendNotification(ctx context.Context, msg model.Message, result model.MatchResult, link string) {
	n := model.Notification{
		Result:      result,
		MessageText: msg.Text,
		MessageLink: link,
		ChannelName: msg.Channel,
		MessageDate: msg.PostedAt,
	}

	if err := m.notifier.Notify(ctx, n); err != nil {
		slog.Error("Failed to send notification",
			"product", result.ProductName,
			"channel", msg.Channel,
			"error", err)
	}
}

// tooOld applies the max-age filter. Messages without a date pass.
func (m *Monitor) tooOld(msg model.Message, opts Options) bool {
	if opts.MaxAgeDays <= 0 {
		return false
	}
	if msg.PostedAt.IsZero() {
		slog.Warn("Message has no date, skipping age check", "message_id", msg.ID)
		return false
	}

	cutoff := m.now().AddDate(0, 0, -opts.MaxAgeDays)
	return msg.PostedAt.Before(cutoff)
}

// preview returns a single-line excerpt of the message text for logging.
func preview(text string) string {
	flat := strings.ReplaceAll(text, "\n", " ")
	runes := []rune(flat)
	if len(runes) <= previewLength {
		return flat
	}
	return string(runes[:previewLength]) + "..."
}
