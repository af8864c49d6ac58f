package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	reportsvc "github.com/sparrow-vision/access-atlas/pkg/services/report"
)

type TemplatesCmd struct {
	category string
	output   io.Writer
}

func NewTemplatesCmd(output io.Writer) *cobra.Command {
	tc := &TemplatesCmd{output: output}
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the built-in report templates",
		RunE:  tc.run,
	}

	cmd.Flags().StringVar(&tc.category, "category", "", "Filter by category (compliance, security, operational, custom)")

	return cmd
}

func (tc *TemplatesCmd) run(_ *cobra.Command, _ []string) error {
	templates := reportsvc.ListTemplates(tc.category)
	if len(templates) == 0 {
		_, err := fmt.Fprintln(tc.output, "no templates found")
		return err
	}

	for _, tpl := range templates {
		_, err := fmt.Fprintf(tc.output, "%-24s %-14s %s\n", tpl.ID, tpl.Category, tpl.Description)
		if err != nil {
			return err
		}
	}
	return nil
}
