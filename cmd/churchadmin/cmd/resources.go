package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-church-admin/resources"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <kind>",
		Short: "List resources of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			kind, err := a.requireKind(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			items, err := resources.NewCollection[json.RawMessage](a.dispatcher, kind.Path).List(cmd.Context(), nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), items)
		}),
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <id>",
		Short: "Show one resource",
		Args:  cobra.ExactArgs(2),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			kind, err := a.requireKind(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			item, err := resources.NewCollection[json.RawMessage](a.dispatcher, kind.Path).Get(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), item)
		}),
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete one resource",
		Args:  cobra.ExactArgs(2),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			kind, err := a.requireKind(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			if err := resources.NewCollection[json.RawMessage](a.dispatcher, kind.Path).Delete(cmd.Context(), args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", kind.Name, args[1])
			return nil
		}),
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
