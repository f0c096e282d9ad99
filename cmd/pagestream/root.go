package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/3-lines-studio/pagestream/internal/adapters/cli"
	"github.com/3-lines-studio/pagestream/internal/adapters/fs"
	"github.com/3-lines-studio/pagestream/internal/config"
)

type app struct {
	cfg    *config.Config
	out    *cli.Output
	fs     *fs.OSFileSystem
	stdin  io.Reader
	stdout io.Writer
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "pagestream",
		Short:         "Rewrite import maps and write page artifacts for a static site build",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ./pagestream.yaml)")
	root.PersistentFlags().String("log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	root.PersistentFlags().Bool("no-color", false, "disable colored output")

	a := &app{
		fs: fs.NewOSFileSystem(),
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath, cmd.Flags())
		if err != nil {
			return err
		}
		a.cfg = cfg

		if cfg.NoColor {
			color.NoColor = true
		}
		a.out = cli.NewOutputTo(cmd.OutOrStdout(), cmd.ErrOrStderr())
		a.stdin = cmd.InOrStdin()
		a.stdout = cmd.OutOrStdout()

		return setupLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	}

	root.AddCommand(
		newImportMapCmd(a),
		newPagesCmd(a),
		newNormalizeCmd(a),
		newValidateCmd(a),
		newDoctorCmd(a),
	)

	return root
}

func setupLogger(w io.Writer, level string) error {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix: "pagestream",
		Level:  lvl,
	})
	slog.SetDefault(slog.New(logger))
	return nil
}

// openInput returns stdin for "-" and the named file otherwise.
func (a *app) openInput(path string) (io.ReadCloser, string, error) {
	if path == "" || path == "-" {
		return io.NopCloser(a.stdin), "stdin", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, path, nil
}
