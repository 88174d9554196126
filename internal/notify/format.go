// Package notify delivers match notifications to the configured messenger.
package notify

import (
	"fmt"
	"strings"

	"prowl/internal/model"
)

// maxMessageLength truncates quoted message text in notifications.
const maxMessageLength = 500

// FormatOptions controls which optional parts appear in a notification.
type FormatOptions struct {
	IncludeLink     bool
	IncludeKeywords bool
}

// FormatNotification renders one match as a Markdown notification body.
func FormatNotification(n model.Notification, opts FormatOptions) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("🔔 *Found: %s*\n", n.Result.ProductName))

	if n.ChannelName != "" {
		parts = append(parts, fmt.Sprintf("📢 *Channel:* %s", n.ChannelName))
	}

	if !n.MessageDate.IsZero() {
		parts = append(parts, fmt.Sprintf("🕒 *Posted:* %s", n.MessageDate.Format("2006-01-02 15:04:05")))
	}

	if opts.IncludeKeywords && len(n.Result.MatchedKeywords) > 0 {
		parts = append(parts, fmt.Sprintf("🔑 *Keywords:* %s", strings.Join(n.Result.MatchedKeywords, ", ")))
	}

	if n.Result.Price != nil {
		parts = append(parts, fmt.Sprintf("💰 *Price:* %s", formatPrice(*n.Result.Price, n.Result.Currency)))
	}

	parts = append(parts, "")

	parts = append(parts, fmt.Sprintf("📝 *Message:*\n%s", truncate(n.MessageText, maxMessageLength)))

	if opts.IncludeLink && n.MessageLink != "" {
		parts = append(parts, fmt.Sprintf("\n🔗 [View Original Message](%s)", n.MessageLink))
	}

	return strings.Join(parts, "\n")
}

// formatPrice places the currency symbol per its convention: euro amounts
// carry a trailing symbol, dollar amounts a leading one.
func formatPrice(value float64, currency string) string {
	switch currency {
	case "€":
		return fmt.Sprintf("%.2f%s", value, currency)
	case "":
		return fmt.Sprintf("%.2f", value)
	default:
		return fmt.Sprintf("%s%.2f", currency, value)
	}
}

// truncate shortens s to at most limit runes, appending an ellipsis when
// anything was cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
