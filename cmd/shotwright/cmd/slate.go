package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shotwright/shotwright/internal/scene"
	"github.com/shotwright/shotwright/internal/slate"
)

var slateCmd = &cobra.Command{
	Use:   "slate <scene.yaml>",
	Short: "Render placeholder slate images for every shot",
	Long: `Slate renders one PNG per shot: a dark card with the scene title,
shot number, and a text excerpt, sized to each shot's configured aspect
ratio. Slates stand in for generated first frames in edit previews.`,
	Args: cobra.ExactArgs(1),
	RunE: runSlate,
}

func init() {
	rootCmd.AddCommand(slateCmd)
	slateCmd.Flags().StringP("out", "o", "slates", "output directory")
}

func runSlate(cmd *cobra.Command, args []string) error {
	scenePath := args[0]
	outDir, _ := cmd.Flags().GetString("out")

	sc, err := scene.Load(scenePath)
	if err != nil {
		return fmt.Errorf("loading scene: %w", err)
	}

	cfg := loadUserConfig()
	s := loadSession(scenePath, sc, cfg)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	renderer := slate.NewRenderer()
	for _, shot := range sc.Shots {
		path := filepath.Join(outDir, fmt.Sprintf("%s-shot-%03d.png", sc.ID, shot.Slot))
		if err := renderer.WriteFile(path, sc, shot, s.AspectRatio(shot.Slot)); err != nil {
			return fmt.Errorf("rendering slate for shot %d: %w", shot.Slot, err)
		}
		fmt.Printf("  Wrote %s\n", path)
	}

	return nil
}
