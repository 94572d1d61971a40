package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (a *app) toolsCmd() *cobra.Command {
	var schema bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			name := color.New(color.FgBlue, color.Bold)

			for _, tool := range a.dispatcher().Tools() {
				_, err := name.Fprint(out, tool.Name)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "  %s\n", tool.Description)

				if !schema {
					continue
				}

				raw, err := tool.InputSchemaJSON()
				if err != nil {
					return err
				}

				err = printJSON(out, raw, false)
				if err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&schema, "schema", false, "print the JSON schema of each tool")

	return cmd
}
