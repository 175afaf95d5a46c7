package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shotwright/shotwright/internal/scene"
	"github.com/shotwright/shotwright/internal/tui"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard <scene.yaml>",
	Short: "Run the interactive shot configuration wizard",
	Long: `Walk the scene shot by shot, configuring references, pronouns, props,
dialogue, overrides, and camera settings. Same as running shotwright with
no subcommand.`,
	Args: cobra.ExactArgs(1),
	RunE: runWizard,
}

func init() {
	rootCmd.AddCommand(wizardCmd)
}

func runWizard(cmd *cobra.Command, args []string) error {
	scenePath := args[0]

	sc, err := scene.Load(scenePath)
	if err != nil {
		return fmt.Errorf("loading scene: %w", err)
	}

	cfg := loadUserConfig()
	lib := openLibrary(cfg)

	return tui.Run(tui.Options{
		Scene:       sc,
		Library:     lib,
		Config:      cfg,
		Session:     loadSession(scenePath, sc, cfg),
		SessionPath: sessionPathFor(scenePath),
	})
}
