package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	tagsCmd := &cobra.Command{Use: "tags", Short: "Tag operations"}

	var forPrompt string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tags, or the tags of one prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/tags"
			if forPrompt != "" {
				path = pathf("/prompts/%s/tags", forPrompt)
			}
			data, err := newClient().get(cmd.Context(), path, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	listCmd.Flags().StringVarP(&forPrompt, "prompt", "p", "", "Prompt ID")
	tagsCmd.AddCommand(listCmd)

	var name, createdBy string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"name": name, "created_by": createdBy}
			data, err := newClient().send(cmd.Context(), http.MethodPost, "/tags", payload)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	createCmd.Flags().StringVarP(&name, "name", "n", "", "Tag name (required)")
	createCmd.Flags().StringVarP(&createdBy, "created-by", "u", "", "Creator (required)")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("created-by")
	tagsCmd.AddCommand(createCmd)

	var newName string
	renameCmd := &cobra.Command{
		Use:   "rename TAG_ID",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newClient().send(cmd.Context(), http.MethodPut, pathf("/tags/%s", args[0]), map[string]string{"name": newName})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	renameCmd.Flags().StringVarP(&newName, "name", "n", "", "New name (required)")
	_ = renameCmd.MarkFlagRequired("name")
	tagsCmd.AddCommand(renameCmd)

	tagsCmd.AddCommand(&cobra.Command{
		Use:   "delete TAG_ID",
		Short: "Delete a tag and its assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := newClient().send(cmd.Context(), http.MethodDelete, pathf("/tags/%s", args[0]), nil); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted tag %s\n", args[0])
			return err
		},
	})

	tagsCmd.AddCommand(&cobra.Command{
		Use:   "assign PROMPT_ID TAG_ID",
		Short: "Attach a tag to a prompt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newClient().send(cmd.Context(), http.MethodPost, pathf("/prompts/%s/tags", args[0]), map[string]string{"tag_id": args[1]})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	})

	tagsCmd.AddCommand(&cobra.Command{
		Use:   "unassign PROMPT_ID TAG_ID",
		Short: "Detach a tag from a prompt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newClient().send(cmd.Context(), http.MethodDelete, pathf("/prompts/%s/tags/%s", args[0], args[1]), nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	})

	rootCmd.AddCommand(tagsCmd)
}
