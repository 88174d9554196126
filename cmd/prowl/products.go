package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"prowl/internal/config"
	"prowl/internal/model"
)

func productsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List configured products",
		Long:  `List all products from the configuration with their keywords, exclusions, and price ranges.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if len(cfg.Products) == 0 {
				slog.Info("No products configured")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tKEYWORDS\tEXCLUDES\tPRICE RANGE\tNOTIFY")
			_, _ = fmt.Fprintln(w, "────\t────────\t────────\t───────────\t──────")

			for _, product := range cfg.Products {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n",
					truncateString(product.Name, 24),
					truncateString(strings.Join(product.Keywords, ", "), 40),
					truncateString(strings.Join(product.ExcludeKeywords, ", "), 30),
					formatPriceRange(product.PriceRange),
					product.Notify)
			}

			return w.Flush()
		},
	}
}

func formatPriceRange(r *model.PriceRange) string {
	if r == nil {
		return "any"
	}
	if r.Max == nil {
		return fmt.Sprintf("%.0f+", r.Min)
	}
	return fmt.Sprintf("%.0f–%.0f", r.Min, *r.Max)
}
