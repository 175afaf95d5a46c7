package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shotwright/shotwright/internal/scene"
	"github.com/shotwright/shotwright/internal/wizard"
)

var validateCmd = &cobra.Command{
	Use:   "validate <scene.yaml>",
	Short: "Check a saved session for completeness without the TUI",
	Long: `Validate runs the same per-shot checks the wizard applies before
letting a shot advance, and prints every problem found. The exit status is
non-zero when any shot is incomplete, so it can gate CI or batch scripts.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	scenePath := args[0]

	sc, err := scene.Load(scenePath)
	if err != nil {
		return fmt.Errorf("loading scene: %w", err)
	}

	cfg := loadUserConfig()
	lib := openLibrary(cfg)
	s := loadSession(scenePath, sc, cfg)

	validator := wizard.NewValidator(lib)

	failed := 0
	for _, shot := range sc.Shots {
		errs := validator.ValidateShot(s, shot.Slot)
		if len(errs) == 0 {
			continue
		}
		failed++
		fmt.Printf("Shot %d (%s):\n", shot.Slot, shot.Type)
		for _, e := range errs {
			fmt.Printf("  - %s\n", e)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d shots incomplete", failed, len(sc.Shots))
	}

	fmt.Printf("All %d shots complete.\n", len(sc.Shots))
	return nil
}
