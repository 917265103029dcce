package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "partygames",
		Short: "CLI tool for the party games API",
		Long: `partygames is a CLI tool for hosting party games through the JSON API.

It can create and drive imposter, mafia, charades and synonyms sessions,
manage rosters and preferences, and stream session events in real-time.
Host tokens are saved per session when a session is created.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			client.SetVerbose(cfg.Verbose, cmd.ErrOrStderr())
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: PARTYGAMES_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Host token, overriding the saved one (env: PARTYGAMES_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenDir, "token-dir", cfg.TokenDir, "Directory of saved host tokens (env: PARTYGAMES_TOKEN_DIR)")
	rootCmd.PersistentFlags().StringVar(&cfg.Profile, "profile", cfg.Profile, "Preferences profile (env: PARTYGAMES_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newActCmd())
	rootCmd.AddCommand(newActionsCmd())
	rootCmd.AddCommand(newResultsCmd())
	rootCmd.AddCommand(newWordsCmd())
	rootCmd.AddCommand(newPreferencesCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
