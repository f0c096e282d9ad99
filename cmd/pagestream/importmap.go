package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/pagestream/internal/adapters/watch"
	"github.com/3-lines-studio/pagestream/internal/usecase"
)

func newImportMapCmd(a *app) *cobra.Command {
	var dryRun, check, watchFile bool

	cmd := &cobra.Command{
		Use:   "importmap [file]",
		Short: "Rewrite relative import map entries to /web_modules/",
		Long: `Read an import map, rewrite every value starting with "./" to live under
/web_modules/, and write the result to <out>/web_modules/import-map.json
with imports sorted by specifier.

Examples:
  pagestream importmap
  pagestream importmap ./web_modules/import-map.json --out public
  pagestream importmap --check
  pagestream importmap --dry-run
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.ImportMapInput{
				SourcePath: a.cfg.ImportMap,
				OutDir:     a.cfg.OutDir,
				DryRun:     dryRun,
			}
			if len(args) == 1 {
				input.SourcePath = args[0]
			}

			svc := usecase.NewImportMapService(a.fs)

			if check {
				return runImportMapCheck(cmd.Context(), a, svc, input)
			}

			if err := runImportMapRewrite(cmd.Context(), a, svc, input); err != nil {
				return err
			}

			if !watchFile {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.out.PrintStep("", "Watching %s for changes", input.SourcePath)
			return watch.File(ctx, input.SourcePath, watch.DefaultDebounce, func() {
				if err := runImportMapRewrite(ctx, a, svc, input); err != nil {
					a.out.PrintError("%v", err)
				}
			})
		},
	}

	cmd.Flags().String("out", "", "output directory (default \"public\")")
	cmd.Flags().String("import-map", "", "import map source (default \"import-map.json\")")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the rewritten import map instead of writing it")
	cmd.Flags().BoolVar(&check, "check", false, "fail with a diff when the written import map is out of date")
	cmd.Flags().BoolVar(&watchFile, "watch", false, "rewrite again whenever the source changes")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "check", "watch")

	return cmd
}

func runImportMapRewrite(ctx context.Context, a *app, svc *usecase.ImportMapService, input usecase.ImportMapInput) error {
	result := svc.Rewrite(ctx, input)
	if result.Error != nil {
		return result.Error
	}

	if input.DryRun {
		_, err := a.stdout.Write(result.Rendered)
		return err
	}

	slog.Debug("import map rewritten", "source", input.SourcePath, "output", result.OutputPath, "imports", len(result.Map.Imports))
	a.out.PrintSuccess("Rewrote %d imports", len(result.Map.Imports))
	a.out.PrintFile(result.OutputPath)
	return nil
}

func runImportMapCheck(ctx context.Context, a *app, svc *usecase.ImportMapService, input usecase.ImportMapInput) error {
	check := svc.Check(ctx, input)
	if check.Error != nil {
		return check.Error
	}

	if check.UpToDate {
		a.out.PrintSuccess("%s is up to date", check.OutputPath)
		return nil
	}

	a.out.PrintWarning("%s is out of date", check.OutputPath)
	a.out.PrintDiff(check.Diff)
	return fmt.Errorf("import map %s is out of date", check.OutputPath)
}
