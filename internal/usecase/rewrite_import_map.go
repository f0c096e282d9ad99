package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/tidwall/pretty"

	"github.com/3-lines-studio/pagestream/internal/core"
)

const ImportMapName = "import-map.json"

type ImportMapInput struct {
	SourcePath string
	OutDir     string
	DryRun     bool
}

type ImportMapOutput struct {
	Map        *core.ImportMap
	Rendered   []byte
	OutputPath string
	Error      error
}

type ImportMapCheck struct {
	UpToDate   bool
	OutputPath string
	Diff       string
	Error      error
}

type ImportMapService struct {
	fs FileSystem
}

func NewImportMapService(fs FileSystem) *ImportMapService {
	return &ImportMapService{
		fs: fs,
	}
}

// OutputPath is where the rewritten import map lives below outDir.
func OutputPath(outDir string) string {
	return filepath.Join(outDir, "web_modules", ImportMapName)
}

func (s *ImportMapService) Rewrite(ctx context.Context, input ImportMapInput) ImportMapOutput {
	m, rendered, err := s.render(input.SourcePath)
	if err != nil {
		return ImportMapOutput{Error: err}
	}

	out := ImportMapOutput{
		Map:        m,
		Rendered:   rendered,
		OutputPath: OutputPath(input.OutDir),
	}
	if input.DryRun {
		return out
	}

	if err := ctx.Err(); err != nil {
		out.Error = err
		return out
	}

	if err := s.fs.MkdirAll(filepath.Dir(out.OutputPath), 0755); err != nil {
		out.Error = fmt.Errorf("failed to create web_modules dir: %w", err)
		return out
	}
	if err := s.fs.WriteFile(out.OutputPath, rendered, 0644); err != nil {
		out.Error = fmt.Errorf("failed to write import map: %w", err)
		return out
	}
	return out
}

// Check reports whether the import map on disk matches a fresh rewrite of
// the source, with a line diff when it does not.
func (s *ImportMapService) Check(ctx context.Context, input ImportMapInput) ImportMapCheck {
	check := ImportMapCheck{OutputPath: OutputPath(input.OutDir)}

	_, rendered, err := s.render(input.SourcePath)
	if err != nil {
		check.Error = err
		return check
	}

	var existing []byte
	if s.fs.FileExists(check.OutputPath) {
		existing, err = s.fs.ReadFile(check.OutputPath)
		if err != nil {
			check.Error = fmt.Errorf("failed to read %s: %w", check.OutputPath, err)
			return check
		}
	}

	if string(existing) == string(rendered) {
		check.UpToDate = true
		return check
	}

	check.Diff = lineDiff(string(existing), string(rendered))
	return check
}

func (s *ImportMapService) render(sourcePath string) (*core.ImportMap, []byte, error) {
	data, err := s.fs.ReadFile(sourcePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read import map %s: %w", sourcePath, err)
	}

	m, err := core.ParseImportMap(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", sourcePath, err)
	}

	raw, err := m.MarshalJSON()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode import map: %w", err)
	}
	return m, pretty.Pretty(raw), nil
}

func lineDiff(from, to string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(strings.TrimSuffix(line, "\n"))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
