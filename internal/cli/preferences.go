package cli

import (
	"github.com/spf13/cobra"
)

func newPreferencesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prefs",
		Aliases: []string{"preferences"},
		Short:   "Device preference commands",
	}

	cmd.AddCommand(newPreferencesGetCmd())
	cmd.AddCommand(newPreferencesSetCmd())
	cmd.AddCommand(newPreferencesSignOutCmd())

	return cmd
}

func newPreferencesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Preferences
			if err := client.Get("/api/v1/preferences"+profileQuery(), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newPreferencesSetCmd() *cobra.Command {
	var locale, theme, authToken string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change preferences; unset flags are left alone",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if cmd.Flags().Changed("locale") {
				req["locale"] = locale
			}
			if cmd.Flags().Changed("theme") {
				req["theme"] = theme
			}
			if cmd.Flags().Changed("auth-token") {
				req["auth_token"] = authToken
			}

			var result Preferences
			if err := client.Put("/api/v1/preferences"+profileQuery(), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "Locale (en, tr, it, de, fr, es, sq)")
	cmd.Flags().StringVar(&theme, "theme", "", "Theme (system, light, dark)")
	cmd.Flags().StringVar(&authToken, "auth-token", "", "Word supplier token")

	return cmd
}

func newPreferencesSignOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign-out",
		Short: "Forget the word supplier token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/preferences/token"+profileQuery(), nil); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Signed out")
			return nil
		},
	}
}
