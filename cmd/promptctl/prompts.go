package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	promptsCmd := &cobra.Command{Use: "prompts", Short: "Prompt operations"}

	// list
	var listCollection, listSearch string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List prompts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			if listCollection != "" {
				query["collection_id"] = listCollection
			}
			if listSearch != "" {
				query["search"] = listSearch
			}
			data, err := newClient().get(cmd.Context(), "/prompts", query)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	listCmd.Flags().StringVarP(&listCollection, "collection", "c", "", "Only prompts in this collection")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Case-insensitive match on title or description")
	promptsCmd.AddCommand(listCmd)

	// get
	promptsCmd.AddCommand(&cobra.Command{
		Use:   "get PROMPT_ID",
		Short: "Get prompt by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newClient().get(cmd.Context(), pathf("/prompts/%s", args[0]), nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	})

	// create
	var title, content, description, collection string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"title": title, "content": content}
			if description != "" {
				payload["description"] = description
			}
			if collection != "" {
				payload["collection_id"] = collection
			}
			data, err := newClient().send(cmd.Context(), http.MethodPost, "/prompts", payload)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	createCmd.Flags().StringVarP(&title, "title", "t", "", "Title (required)")
	createCmd.Flags().StringVar(&content, "content", "", "Template content (required)")
	createCmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	createCmd.Flags().StringVarP(&collection, "collection", "c", "", "Collection ID")
	_ = createCmd.MarkFlagRequired("title")
	_ = createCmd.MarkFlagRequired("content")
	promptsCmd.AddCommand(createCmd)

	// patch
	var patchClearDescription, patchClearCollection bool
	patchCmd := &cobra.Command{
		Use:   "patch PROMPT_ID",
		Short: "Update only the given prompt fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := patchPayload(cmd, patchClearDescription, patchClearCollection)
			if len(payload) == 0 {
				return fmt.Errorf("nothing to update")
			}
			data, err := newClient().send(cmd.Context(), http.MethodPatch, pathf("/prompts/%s", args[0]), payload)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	patchCmd.Flags().StringP("title", "t", "", "New title")
	patchCmd.Flags().String("content", "", "New content")
	patchCmd.Flags().StringP("description", "d", "", "New description")
	patchCmd.Flags().StringP("collection", "c", "", "Move to collection ID")
	patchCmd.Flags().BoolVar(&patchClearDescription, "clear-description", false, "Remove the description")
	patchCmd.Flags().BoolVar(&patchClearCollection, "clear-collection", false, "Remove the prompt from its collection")
	patchCmd.MarkFlagsMutuallyExclusive("description", "clear-description")
	patchCmd.MarkFlagsMutuallyExclusive("collection", "clear-collection")
	promptsCmd.AddCommand(patchCmd)

	// delete
	promptsCmd.AddCommand(&cobra.Command{
		Use:   "delete PROMPT_ID",
		Short: "Delete a prompt with its versions and tag assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := newClient().send(cmd.Context(), http.MethodDelete, pathf("/prompts/%s", args[0]), nil); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted prompt %s\n", args[0])
			return err
		},
	})

	// render
	var vars map[string]string
	renderCmd := &cobra.Command{
		Use:   "render PROMPT_ID",
		Short: "Fill the prompt's {{placeholders}}",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"variables": vars}
			data, err := newClient().send(cmd.Context(), http.MethodPost, pathf("/prompts/%s/render", args[0]), payload)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	renderCmd.Flags().StringToStringVar(&vars, "var", nil, "Variable as name=value (repeatable)")
	promptsCmd.AddCommand(renderCmd)

	rootCmd.AddCommand(promptsCmd)
}

// patchPayload includes only flags the user set; clear flags send null.
func patchPayload(cmd *cobra.Command, clearDescription, clearCollection bool) map[string]interface{} {
	payload := map[string]interface{}{}
	fields := map[string]string{
		"title":       "title",
		"content":     "content",
		"description": "description",
		"collection":  "collection_id",
	}
	for flag, field := range fields {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetString(flag)
			payload[field] = v
		}
	}
	if clearDescription {
		payload["description"] = nil
	}
	if clearCollection {
		payload["collection_id"] = nil
	}
	return payload
}
