package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"humblebot/internal/config"
)

var (
	configFile  string
	backendName string
	modelName   string
)

var rootCmd = &cobra.Command{
	Use:   "humblebot",
	Short: "HumbleBot - a small chat client for LLM backends",
	Long: `HumbleBot keeps one conversation with a text-completion backend.

Run without arguments to start the interactive chat interface.
Backends: lorem (offline mock), anthropic, openrouter, gemini, http.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (overrides CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVarP(&backendName, "backend", "b", "", "backend to use (overrides BACKEND)")
	rootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", "model to use (overrides MODEL)")

	rootCmd.AddCommand(chatCmd, sendCmd, backendsCmd)
}

// loadConfig reads env and the optional config file, then applies flag overrides
func loadConfig() (*config.Config, error) {
	// Load .env file (ignore error if not exists)
	_ = godotenv.Load()

	path := configFile
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}

	cfg, err := config.LoadWithFile(path)
	if err != nil {
		return nil, err
	}

	if backendName != "" {
		cfg.Backend = strings.ToLower(strings.TrimSpace(backendName))
		// A model picked for another backend makes no sense here
		if modelName == "" {
			cfg.Model = ""
		}
	}
	if modelName != "" {
		cfg.Model = modelName
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
