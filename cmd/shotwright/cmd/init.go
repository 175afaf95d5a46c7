package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shotwright/shotwright/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize shotwright configuration",
	Long: `Initialize the shotwright configuration file in your config directory.

This writes a config.yaml with the gateway endpoints, the media library
path, and the per-shot defaults the wizard starts from. Edit it to point at
your project.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir := getConfigDir()

	if _, err := os.Stat(configDir); err == nil && !force {
		if _, err := config.Load(configDir); err == nil {
			return fmt.Errorf("config already exists in %s\nUse --force to overwrite", configDir)
		}
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := config.Save(configDir, config.Default()); err != nil {
		return err
	}

	fmt.Printf("Initialized shotwright configuration in %s\n\n", configDir)
	fmt.Println("Next steps:")
	fmt.Println("  1. Edit config.yaml with your project id and gateway endpoints")
	fmt.Println("  2. Run 'shotwright <scene.yaml>' to start configuring a scene")

	return nil
}
