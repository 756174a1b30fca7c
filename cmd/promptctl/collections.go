package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	collectionsCmd := &cobra.Command{Use: "collections", Short: "Collection operations"}

	collectionsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newClient().get(cmd.Context(), "/collections", nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	})

	var name, description string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"name": name}
			if description != "" {
				payload["description"] = description
			}
			data, err := newClient().send(cmd.Context(), http.MethodPost, "/collections", payload)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	createCmd.Flags().StringVarP(&name, "name", "n", "", "Collection name (required)")
	createCmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	_ = createCmd.MarkFlagRequired("name")
	collectionsCmd.AddCommand(createCmd)

	collectionsCmd.AddCommand(&cobra.Command{
		Use:   "delete COLLECTION_ID",
		Short: "Delete a collection; its prompts are kept without a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := newClient().send(cmd.Context(), http.MethodDelete, pathf("/collections/%s", args[0]), nil); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted collection %s\n", args[0])
			return err
		},
	})

	rootCmd.AddCommand(collectionsCmd)
}
