package cli

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newWordsCmd() *cobra.Command {
	var locale, category, difficulty string
	var limit int

	query := func(extra url.Values) string {
		q := url.Values{}
		if locale != "" {
			q.Set("locale", locale)
		}
		if limit > 0 {
			q.Set("limit", strconv.Itoa(limit))
		}
		if cfg.Profile != "" {
			q.Set("profile", cfg.Profile)
		}
		for k, v := range extra {
			q[k] = v
		}
		if len(q) == 0 {
			return ""
		}
		return "?" + q.Encode()
	}

	cmd := &cobra.Command{
		Use:   "words",
		Short: "Fetch word lists",
	}
	cmd.PersistentFlags().StringVar(&locale, "locale", "", "Locale (default: profile preference)")
	cmd.PersistentFlags().IntVar(&limit, "limit", 0, "Number of words (default: server default)")

	cmd.AddCommand(&cobra.Command{
		Use:   "pairs",
		Short: "Fetch imposter word pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result WordPairs
			if err := client.Get("/api/v1/words/pairs"+query(nil), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	})

	charades := &cobra.Command{
		Use:   "charades",
		Short: "Fetch charades words",
		RunE: func(cmd *cobra.Command, args []string) error {
			extra := url.Values{}
			if category != "" {
				extra.Set("category", category)
			}
			if difficulty != "" {
				extra.Set("difficulty", difficulty)
			}
			var result WordList
			if err := client.Get("/api/v1/words/charades"+query(extra), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
	charades.Flags().StringVar(&category, "category", "", "Word category")
	charades.Flags().StringVar(&difficulty, "difficulty", "", "Word difficulty")
	cmd.AddCommand(charades)

	cmd.AddCommand(&cobra.Command{
		Use:   "synonyms",
		Short: "Fetch synonyms words",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result WordList
			if err := client.Get("/api/v1/words/synonyms"+query(nil), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	})

	return cmd
}
