package main

import (
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	versionsCmd := &cobra.Command{Use: "versions", Short: "Prompt version history"}

	versionsCmd.AddCommand(&cobra.Command{
		Use:   "list PROMPT_ID",
		Short: "List a prompt's versions, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newClient().get(cmd.Context(), pathf("/prompts/%s/versions", args[0]), nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	})

	var content, summary string
	recordCmd := &cobra.Command{
		Use:   "record PROMPT_ID",
		Short: "Set new content, keeping the current content as a version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{"content": content, "changes_summary": summary}
			data, err := newClient().send(cmd.Context(), http.MethodPost, pathf("/prompts/%s/versions", args[0]), payload)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	recordCmd.Flags().StringVar(&content, "content", "", "New content (required)")
	recordCmd.Flags().StringVarP(&summary, "summary", "m", "", "Summary of the change")
	_ = recordCmd.MarkFlagRequired("content")
	versionsCmd.AddCommand(recordCmd)

	versionsCmd.AddCommand(&cobra.Command{
		Use:   "revert PROMPT_ID VERSION_ID",
		Short: "Restore the content stored in a version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newClient().send(cmd.Context(), http.MethodPost, pathf("/prompts/%s/versions/%s/revert", args[0], args[1]), nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	})

	rootCmd.AddCommand(versionsCmd)
}
