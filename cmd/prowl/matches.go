package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"prowl/internal/config"
	"prowl/internal/service"
)

func matchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "List stored matches",
		Long:  `List matches saved by previous watch and scan runs, newest first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, cleanup, err := getStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to open match database: %w", err)
			}
			defer cleanup()

			product, _ := cmd.Flags().GetString("product")
			channel, _ := cmd.Flags().GetString("channel")
			limit, _ := cmd.Flags().GetInt("limit")

			records, err := store.ListMatches(ctx, service.MatchFilter{
				Product: product,
				Channel: channel,
				Limit:   limit,
			})
			if err != nil {
				return fmt.Errorf("failed to list matches: %w", err)
			}

			if len(records) == 0 {
				slog.Info("No matches found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "WHEN\tPRODUCT\tPRICE\tCHANNEL\tKEYWORDS\tMESSAGE")
			_, _ = fmt.Fprintln(w, "────\t───────\t─────\t───────\t────────\t───────")

			for _, record := range records {
				price := "-"
				if record.Price != nil {
					price = fmt.Sprintf("%s%.2f", record.Currency, *record.Price)
				}

				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					record.CreatedAt.Format("2006-01-02 15:04"),
					truncateString(record.ProductName, 20),
					price,
					truncateString(record.Channel, 20),
					truncateString(strings.Join(record.MatchedKeywords, ", "), 30),
					truncateString(strings.ReplaceAll(record.MessageText, "\n", " "), 50))
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringP("product", "p", "", "Filter by product name")
	cmd.Flags().StringP("channel", "c", "", "Filter by channel")
	cmd.Flags().IntP("limit", "n", 50, "Maximum number of matches to show")
	return cmd
}
