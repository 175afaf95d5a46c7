package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shotwright/shotwright/internal/pricing"
	"github.com/shotwright/shotwright/internal/scene"
)

var priceCmd = &cobra.Command{
	Use:   "price <scene.yaml>",
	Short: "Fetch a credit quote for the current session",
	Long: `Price builds a quote request from the saved session and asks the
pricing gateway what the configured scene will cost, broken down per shot.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	scenePath := args[0]

	sc, err := scene.Load(scenePath)
	if err != nil {
		return fmt.Errorf("loading scene: %w", err)
	}

	cfg := loadUserConfig()
	s := loadSession(scenePath, sc, cfg)

	client := pricing.NewClient(cfg.PricingURL, os.Getenv("SHOTWRIGHT_TOKEN"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	quote, err := client.Quote(ctx, pricing.BuildRequest(cfg.ProjectID, s))
	if err != nil {
		return fmt.Errorf("fetching quote: %w", err)
	}

	for _, shot := range sc.Shots {
		p, ok := quote.PerShot[shot.Slot]
		if !ok {
			continue
		}
		fmt.Printf("Shot %-3d first frame %4d  HD %4d  4K %4d\n",
			shot.Slot, p.FirstFramePrice, p.HDPrice, p.K4Price)
	}
	fmt.Printf("Total    first frame %4d  HD %4d  4K %4d\n",
		quote.Total.FirstFramePrice, quote.Total.HDPrice, quote.Total.K4Price)

	return nil
}
