package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/pagestream/internal/core"
	"github.com/3-lines-studio/pagestream/internal/schema"
)

func newValidateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a page payload or import map against its schema",
	}

	cmd.AddCommand(
		newValidateSubCmd(a, "page", "Validate a single page payload", schema.ValidatePage, func(data []byte) (string, error) {
			page, err := core.ParseSetDataForSlug(data)
			if err != nil {
				return "", err
			}
			page.Normalize()
			return "page " + page.Slug, nil
		}),
		newValidateSubCmd(a, "importmap", "Validate an import map", schema.ValidateImportMap, func(data []byte) (string, error) {
			m, err := core.ParseImportMap(data)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("import map with %d imports", len(m.Imports)), nil
		}),
	)

	return cmd
}

func newValidateSubCmd(
	a *app,
	use, short string,
	validate func([]byte) ([]schema.Violation, error),
	parse func([]byte) (string, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <file|->",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, name, err := a.openInput(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			data, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", name, err)
			}

			violations, err := validate(data)
			if err != nil {
				return err
			}
			if len(violations) > 0 {
				for _, v := range violations {
					a.out.PrintError("%s", v)
				}
				return fmt.Errorf("%s: %d schema violations", name, len(violations))
			}

			summary, err := parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			a.out.PrintSuccess("%s: valid %s", name, summary)
			return nil
		},
	}
}
