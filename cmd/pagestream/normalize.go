package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/pagestream/internal/adapters/ndjson"
	"github.com/3-lines-studio/pagestream/internal/core"
	"github.com/3-lines-studio/pagestream/internal/usecase"
)

func newNormalizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [file|-]",
		Short: "Normalize every page in an event stream and print it as NDJSON",
		Long: `Read newline-delimited page events, normalize each page (leading "/" on
the slug, empty data object dropped, prerender defaulted) and print the
stream back to stdout, terminated by a single end event.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}

			r, _, err := a.openInput(path)
			if err != nil {
				return err
			}
			defer r.Close()

			enc := ndjson.NewEncoder(a.stdout)
			return streamEvents(cmd.Context(), ndjson.NewDecoder(r), func(ctx context.Context, events <-chan core.Event) error {
				if _, err := usecase.ConsumeEvents(ctx, events, func(page core.SetDataForSlug) error {
					return enc.Encode(core.Set(page))
				}); err != nil {
					return err
				}
				return enc.Encode(core.End())
			})
		},
	}
}
