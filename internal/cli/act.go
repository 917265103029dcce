package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newActCmd() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "act <session> <action> [key=value...]",
		Short: "Send a game intent to a session",
		Long: `Send a game intent such as next, start or vote to a session.

Parameters are given as key=value pairs; numbers and true/false are sent
as JSON numbers and booleans. Nested parameters go in --data as a JSON
object, e.g.

  partygames act <id> configure --data '{"settings":{"rounds":2}}'
  partygames act <id> sense --data '{"reading":{"x":1,"y":0,"z":0}}'
  partygames act <id> vote player_id=<voter> target=<suspect>

Use "partygames actions <game>" to list the intents a game accepts.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, action := args[0], args[1]

			params, err := parseParams(data, args[2:])
			if err != nil {
				return err
			}
			if err := useSession(id); err != nil {
				return err
			}

			var result Session
			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/actions/%s", id, action), params, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "JSON object of parameters")

	return cmd
}

func newActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions <game>",
		Short: "List the intents a game accepts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Actions
			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/actions", args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

// parseParams merges the --data object with key=value pairs; pairs win
func parseParams(data string, pairs []string) (map[string]any, error) {
	params := map[string]any{}
	if data != "" {
		if err := json.Unmarshal([]byte(data), &params); err != nil {
			return nil, fmt.Errorf("invalid --data: %w", err)
		}
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}
		params[key] = parseValue(value)
	}
	return params, nil
}

func parseValue(v string) any {
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(v); err == nil && (v == "true" || v == "false") {
		return b
	}
	return v
}
