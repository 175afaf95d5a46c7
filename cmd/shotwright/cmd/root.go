// Package cmd contains all CLI commands for shotwright.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shotwright/shotwright/internal/config"
	"github.com/shotwright/shotwright/internal/registry"
	"github.com/shotwright/shotwright/internal/scene"
	"github.com/shotwright/shotwright/internal/session"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shotwright <scene.yaml>",
	Short: "Per-shot configuration wizard for screenplay-to-video generation",
	Long: `Shotwright walks a parsed screenplay scene shot by shot and collects
everything the generation pipeline needs: character and location reference
images, pronoun casting, props, dialogue workflows, prompt overrides, and
camera settings.

Running 'shotwright <scene.yaml>' launches the interactive wizard. Progress
is saved next to the scene file, so a session can be resumed at any time.`,
	Args: cobra.ExactArgs(1),
	RunE: runWizard,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/shotwright)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", filepath.Join(home, ".config", "shotwright"))
	}

	viper.SetEnvPrefix("SHOTWRIGHT")
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// loadUserConfig loads the user configuration, falling back to defaults
// when no config file has been written yet.
func loadUserConfig() *config.Config {
	cfg, err := config.Load(getConfigDir())
	if err != nil {
		return config.Default()
	}
	return cfg
}

// openLibrary loads the media library named by the config, or an empty one
// when the file is missing. A missing library is not an error; validation
// will report which characters have no headshots.
func openLibrary(cfg *config.Config) *registry.Library {
	if cfg.LibraryPath != "" {
		if _, err := os.Stat(cfg.LibraryPath); err == nil {
			if lib, err := registry.Open(cfg.LibraryPath); err == nil {
				return lib
			}
		}
	}
	return registry.NewLibrary()
}

// sessionPathFor derives the autosave file for a scene.
func sessionPathFor(scenePath string) string {
	ext := filepath.Ext(scenePath)
	return strings.TrimSuffix(scenePath, ext) + ".session.yaml"
}

// loadSession restores a saved session for the scene, or starts a fresh one
// seeded with the configured per-shot defaults.
func loadSession(scenePath string, sc *scene.Scene, cfg *config.Config) *session.Session {
	path := sessionPathFor(scenePath)
	if _, err := os.Stat(path); err == nil {
		if s, err := session.Load(path, sc); err == nil {
			return s
		}
	}

	s := session.New(sc)
	for _, shot := range sc.Shots {
		if cfg.DefaultAspectRatio != "" {
			s = s.WithAspectRatio(shot.Slot, cfg.DefaultAspectRatio)
		}
		if cfg.DefaultRefModel != "" {
			s = s.WithRefModel(shot.Slot, cfg.DefaultRefModel)
		}
	}
	return s
}
