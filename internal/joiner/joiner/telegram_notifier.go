package joiner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Min interval between any two Telegram messages to the same chat to avoid 429 Too Many Requests (~30/min limit).
const telegramSendInterval = 2 * time.Second

// maxListedTeams caps team names listed in one alert.
const maxListedTeams = 15

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends a diagnostic message for each reconcile run that left picks unmatched
type TelegramNotifier struct {
	bot      messageSender
	chatID   int64
	interval time.Duration
	mu       sync.Mutex
	lastSend time.Time

	// Async queue for sending messages
	queue     chan string
	queueDone chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	n := newTelegramNotifier(bot, chatID, telegramSendInterval)
	slog.Info("Telegram notifier initialized", "chat_id", chatID, "bot", bot.Self.UserName)
	return n, nil
}

func newTelegramNotifier(bot messageSender, chatID int64, interval time.Duration) *TelegramNotifier {
	ctx, cancel := context.WithCancel(context.Background())
	n := &TelegramNotifier{
		bot:       bot,
		chatID:    chatID,
		interval:  interval,
		queue:     make(chan string, 100), // Buffer up to 100 messages
		queueDone: make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}

	// Start background worker for sending messages
	go n.messageSender()
	return n
}

// QueueLen returns current number of messages in the send queue (for logging).
func (n *TelegramNotifier) QueueLen() int {
	if n == nil || n.queue == nil {
		return 0
	}
	return len(n.queue)
}

// NotifyOutcome queues an alert for o without blocking.
func (n *TelegramNotifier) NotifyOutcome(ctx context.Context, o *Outcome) error {
	if n == nil || n.bot == nil {
		return fmt.Errorf("telegram notifier not initialized")
	}
	if n.ctx.Err() != nil {
		return fmt.Errorf("notifier stopped")
	}
	text := formatOutcomeAlert(o)

	select {
	case <-n.ctx.Done():
		return fmt.Errorf("notifier stopped")
	case <-ctx.Done():
		return ctx.Err()
	case n.queue <- text:
		return nil
	default:
		// Queue is full, log warning but don't block
		slog.Warn("Telegram message queue is full, dropping reconcile alert", "run_id", o.RunID)
		return fmt.Errorf("message queue is full")
	}
}

// Close stops the sender after draining queued messages.
func (n *TelegramNotifier) Close() {
	if n == nil {
		return
	}
	n.cancel()
	<-n.queueDone
}

// messageSender runs in background and sends queued messages with proper intervals
func (n *TelegramNotifier) messageSender() {
	defer close(n.queueDone)
	for {
		select {
		case <-n.ctx.Done():
			// Drain remaining messages before exit
			for {
				select {
				case text := <-n.queue:
					n.send(text, false)
				default:
					return
				}
			}
		case text := <-n.queue:
			n.send(text, true)
		}
	}
}

// send delivers one message, waiting out the chat rate limit when wait is set
func (n *TelegramNotifier) send(text string, wait bool) {
	n.mu.Lock()
	elapsed := time.Since(n.lastSend)
	if wait && elapsed < n.interval {
		waitTime := n.interval - elapsed
		n.mu.Unlock()
		select {
		case <-n.ctx.Done():
		case <-time.After(waitTime):
		}
		n.mu.Lock()
	}
	n.lastSend = time.Now()
	n.mu.Unlock()

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	start := time.Now()
	if _, err := n.bot.Send(msg); err != nil {
		slog.Error("Telegram send: failed", "error", err, "message_preview", truncateString(text, 50))
		return
	}
	slog.Info("Telegram send: success", "send_duration", time.Since(start), "queue_length", len(n.queue))
}

// formatOutcomeAlert formats a reconcile outcome as a MarkdownV2 message.
func formatOutcomeAlert(o *Outcome) string {
	var b strings.Builder
	title := "Reconcile"
	if o.Sport != "" {
		title += " " + o.Sport
	}
	b.WriteString(fmt.Sprintf("⚠️ *%s: %s*\n\n", escapeMarkdown(title), escapeMarkdown(string(o.Report.Status))))
	b.WriteString(fmt.Sprintf("Matched *%d* of *%d* picks, %d stat rows\n",
		o.Report.Matched, o.Report.Picks, o.Report.Stats))

	if o.StatsError != "" {
		b.WriteString(fmt.Sprintf("\n❌ Stats: %s\n", escapeMarkdown(o.StatsError)))
	}
	if names := o.Report.UnmatchedPickNames; len(names) > 0 {
		b.WriteString("\nNo stats for:\n")
		writeNames(&b, names)
	}
	if names := o.Report.UnmatchedStatNames; len(names) > 0 && o.Report.Matched > 0 {
		b.WriteString("\nUnused stat rows:\n")
		writeNames(&b, names)
	}
	if o.RunID != "" {
		b.WriteString(fmt.Sprintf("\n_Run: %s_", escapeMarkdown(o.RunID)))
	}
	return b.String()
}

func writeNames(b *strings.Builder, names []string) {
	for i, name := range names {
		if i == maxListedTeams {
			b.WriteString(fmt.Sprintf("…and %d more\n", len(names)-maxListedTeams))
			return
		}
		b.WriteString("• " + escapeMarkdown(name) + "\n")
	}
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"(", "\\(",
		")", "\\)",
		"~", "\\~",
		"`", "\\`",
		">", "\\>",
		"#", "\\#",
		"+", "\\+",
		"-", "\\-",
		"=", "\\=",
		"|", "\\|",
		"{", "\\{",
		"}", "\\}",
		".", "\\.",
		"!", "\\!",
	)
	return replacer.Replace(text)
}
