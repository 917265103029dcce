package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Session management commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionDeleteCmd())
	cmd.AddCommand(newSessionQRCmd())

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var locale, name string

	cmd := &cobra.Command{
		Use:   "create <game>",
		Short: "Create a session (imposter, imposter_multi, mafia, charades, synonyms)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"game": args[0]}
			if locale != "" {
				req["locale"] = locale
			}
			if name != "" {
				req["name"] = name
			}
			if cfg.Profile != "" {
				req["profile"] = cfg.Profile
			}

			var result CreatedSession
			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.Session.ID, result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "Word list locale (default: profile preference)")
	cmd.Flags().StringVar(&name, "name", "", "Session name (default: random)")

	return cmd
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions created from this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := cfg.SavedSessions()
			if err != nil {
				return err
			}

			result := SessionList{Sessions: ids}
			if result.Sessions == nil {
				result.Sessions = []string{}
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get session state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := useSession(id); err != nil {
				return err
			}

			var result Session
			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s", id), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newSessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "End and delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := useSession(id); err != nil {
				return err
			}

			if err := client.Delete(fmt.Sprintf("/api/v1/sessions/%s", id), nil); err != nil {
				return err
			}
			if err := cfg.ForgetToken(id); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("Deleted session %s", id))
			return nil
		},
	}
}

func newSessionQRCmd() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "qr <id> <file.png>",
		Short: "Save the join code of a multi-device game as a QR image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, path := args[0], args[1]
			if err := useSession(id); err != nil {
				return err
			}

			png, err := client.GetRaw(fmt.Sprintf("/api/v1/sessions/%s/qr?size=%d", id, size))
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, png, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("Wrote %s", path))
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 256, "Image size in pixels (64-1024)")

	return cmd
}

func newResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results <id>",
		Short: "Show the scoreboard of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := useSession(id); err != nil {
				return err
			}

			var result Results
			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s/results", id), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
