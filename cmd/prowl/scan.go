package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"prowl/internal/cli"
	"prowl/internal/config"
	"prowl/internal/model"
	"prowl/internal/monitor"
	"prowl/internal/service"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Scan an exported message history for product matches",
		Long: `Replay a JSON-lines export of channel messages (one message object per
line) through the matching engine, oldest first. Matches are stored per
the monitoring config; notifications are off unless --notify is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			sendNotifications, _ := cmd.Flags().GetBool("notify")
			limit, _ := cmd.Flags().GetInt("limit")

			messages, err := readExport(args[0], limit)
			if err != nil {
				return err
			}
			if len(messages) == 0 {
				slog.Info("No messages found in export", "file", args[0])
				return nil
			}

			var store service.MatchStore
			if cfg.Monitoring.SaveMatches {
				s, cleanup, storeErr := getStore(cfg)
				if storeErr != nil {
					return fmt.Errorf("failed to open match database: %w", storeErr)
				}
				defer cleanup()
				store = s
			}

			var notifier service.Notifier
			if sendNotifications {
				notifier, err = buildNotifier(cfg)
				if err != nil {
					return err
				}
			}

			opts := monitorOptions(cfg)
			opts.NotificationsEnabled = sendNotifications
			mon := monitor.New(buildEngine(cfg), store, notifier, opts)

			bar := progressbar.Default(int64(len(messages)), "scanning")

			perChannel := make(map[string]*monitor.Stats)
			var overall monitor.Stats

			for _, msg := range messages {
				stats := perChannel[msg.Channel]
				if stats == nil {
					stats = &monitor.Stats{}
					perChannel[msg.Channel] = stats
				}

				mon.ProcessMessage(ctx, msg, stats)
				_ = bar.Add(1)

				if ctx.Err() != nil {
					break
				}
			}
			_ = bar.Finish()

			channels := make([]string, 0, len(perChannel))
			for channel, stats := range perChannel {
				channels = append(channels, channel)
				overall.Add(*stats)
			}
			sort.Strings(channels)

			fmt.Println()
			fmt.Println(cli.TitleStyle.Render("Scan complete"))
			for _, channel := range channels {
				stats := perChannel[channel]
				fmt.Printf("%s scanned %d, matched %d (skipped: %d old, %d no text)\n",
					cli.BoldStyle.Render(channel),
					stats.MessagesScanned,
					stats.MatchesFound,
					stats.SkippedOld,
					stats.NoText)
			}
			fmt.Println()
			fmt.Printf("Total: %s messages, %s matches\n",
				cli.BoldStyle.Render(fmt.Sprintf("%d", overall.MessagesScanned)),
				cli.SuccessStyle.Render(fmt.Sprintf("%d", overall.MatchesFound)))

			return nil
		},
	}

	cmd.Flags().Bool("notify", false, "Send notifications for matches found during the scan")
	cmd.Flags().IntP("limit", "n", 0, "Only scan the first N messages (0 = all)")
	return cmd
}

// readExport loads a JSON-lines message export. Malformed lines are
// skipped with a warning so one bad record doesn't sink the scan.
func readExport(path string, limit int) ([]model.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var messages []model.Message

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var msg model.Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			slog.Warn("Skipping malformed export line", "line", line, "error", err)
			continue
		}
		messages = append(messages, msg)

		if limit > 0 && len(messages) >= limit {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}

	// Process in chronological order regardless of export order.
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].PostedAt.Before(messages[j].PostedAt)
	})

	return messages, nil
}
