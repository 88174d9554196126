package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prowl/internal/cli"
	"prowl/internal/config"
)

func tryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "try <message text>",
		Short: "Run a message through the matching engine",
		Long: `Evaluate one message against the configured products and print the
results. Useful for tuning keywords and price patterns.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			results := buildEngine(cfg).Match(text)

			if len(results) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No product matches"))
				return nil
			}

			for _, result := range results {
				var b strings.Builder
				fmt.Fprintf(&b, "%s\n", cli.TitleStyle.Render(result.ProductName))
				fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(result.MatchedKeywords, ", "))
				if result.Price != nil {
					fmt.Fprintf(&b, "Price: %s%.2f\n", result.Currency, *result.Price)
				}
				fmt.Fprintf(&b, "Notify: %v", result.Notify)

				fmt.Println(cli.BoxStyle.Render(b.String()))
			}

			return nil
		},
	}
}
