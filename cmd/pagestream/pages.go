package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/pagestream/internal/adapters/cli"
	"github.com/3-lines-studio/pagestream/internal/adapters/ndjson"
	"github.com/3-lines-studio/pagestream/internal/core"
	"github.com/3-lines-studio/pagestream/internal/usecase"
)

// streamBuffer is the channel depth between the decoder and the writer.
const streamBuffer = 16

func newPagesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages [file|-]",
		Short: "Write page data, component sources and the pages manifest from an event stream",
		Long: `Read newline-delimited page events and write the artifacts for each page:

  <out>/<slug>.json            page data, when present
  <src>/<slug>.js              inline component source
  <src>/<slug>.wrapper.js      inline wrapper source
  <out>/pages-manifest.json    every page, sorted by slug

Each line is {"type":"set","page":{...}} or {"type":"end"}. The stream
must finish with exactly one end event.

Examples:
  pagestream pages events.ndjson
  generate-pages | pagestream pages --out public --src .tmp/pages
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}

			r, name, err := a.openInput(path)
			if err != nil {
				return err
			}
			defer r.Close()

			a.out.PrintHeader("Writing pages from " + name)

			report := cli.NewBuildReport(a.out, a.cfg.OutDir)
			step := report.StartStep("Write pages")

			svc := usecase.NewPageService(a.fs, a.out)
			result := streamEvents(cmd.Context(), ndjson.NewDecoder(r), func(ctx context.Context, events <-chan core.Event) error {
				out := svc.WritePages(ctx, events, usecase.PagesInput{
					OutDir:    a.cfg.OutDir,
					SourceDir: a.cfg.SourceDir,
				})

				report.SetPageCount(len(out.Pages))
				for _, f := range out.Files {
					report.AddFile(f.Size)
				}
				for _, s := range out.Skipped {
					report.AddWarning(s.Slug, "Skipped", []string{s.Reason})
				}
				return out.Error
			})

			if result != nil {
				report.EndStep(step, false, result.Error())
				report.AddError(name, "Page stream failed", []string{result.Error()})
				report.Render()
				return result
			}

			report.EndStep(step, true, "")
			report.Render()
			return nil
		},
	}

	cmd.Flags().String("out", "", "output directory for data files and the manifest (default \"public\")")
	cmd.Flags().String("src", "", "output directory for inline module sources (default \".tmp/pages\")")

	return cmd
}

// streamEvents decodes src onto a channel and hands it to consume. It
// returns as soon as consume does, so a producer that keeps its pipe open
// after the end event does not hold up the command. A decode error takes
// precedence over the truncated stream it causes downstream.
func streamEvents(ctx context.Context, src usecase.EventSource, consume func(context.Context, <-chan core.Event) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan core.Event, streamBuffer)
	pumpErr := make(chan error, 1)
	go func() { pumpErr <- usecase.PumpEvents(ctx, src, events) }()

	err := consume(ctx, events)
	if errors.Is(err, core.ErrStreamTruncated) {
		// The channel is closed, so the pump has returned.
		if perr := <-pumpErr; perr != nil {
			return fmt.Errorf("failed to read events: %w", perr)
		}
	}
	return err
}
