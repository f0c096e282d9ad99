package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/pagestream/internal/usecase"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the resolved configuration and the import map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.out.PrintHeader("pagestream doctor")
			a.out.PrintStep("", "out_dir:    %s", a.cfg.OutDir)
			a.out.PrintStep("", "source_dir: %s", a.cfg.SourceDir)
			a.out.PrintStep("", "import_map: %s", a.cfg.ImportMap)
			fmt.Fprintln(a.stdout)

			problems := 0

			if info, err := os.Stat(a.cfg.OutDir); err == nil && !info.IsDir() {
				a.out.PrintError("%s exists and is not a directory", a.cfg.OutDir)
				problems++
			}

			if !a.fs.FileExists(a.cfg.ImportMap) {
				a.out.PrintWarning("No import map at %s", a.cfg.ImportMap)
			} else {
				check := usecase.NewImportMapService(a.fs).Check(cmd.Context(), usecase.ImportMapInput{
					SourcePath: a.cfg.ImportMap,
					OutDir:     a.cfg.OutDir,
				})
				switch {
				case check.Error != nil:
					a.out.PrintError("%v", check.Error)
					problems++
				case check.UpToDate:
					a.out.PrintSuccess("%s is up to date", check.OutputPath)
				default:
					a.out.PrintWarning("%s is out of date, run pagestream importmap", check.OutputPath)
				}
			}

			if problems > 0 {
				return fmt.Errorf("found %d problems", problems)
			}
			a.out.PrintDone("No problems found")
			return nil
		},
	}
}
