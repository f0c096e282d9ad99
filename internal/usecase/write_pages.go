package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"

	"github.com/tidwall/pretty"

	"github.com/3-lines-studio/pagestream/internal/core"
)

const PagesManifestName = "pages-manifest.json"

type PagesInput struct {
	OutDir    string
	SourceDir string
}

type PagesOutput struct {
	Pages    []PageManifestEntry
	Files    []WrittenFile
	Skipped  []SkippedPage
	Manifest string
	Error    error
}

type WrittenFile struct {
	Path string
	Size int
}

type SkippedPage struct {
	Slug   string
	Reason string
}

// PageManifestEntry is the record downstream bundling reads for one slug.
// Inline sources are replaced by references to the files written for them.
type PageManifestEntry struct {
	Slug      string           `json:"slug"`
	Path      string           `json:"path"`
	Prerender bool             `json:"prerender"`
	Component *core.ModuleSpec `json:"component"`
	Wrapper   *core.ModuleSpec `json:"wrapper"`
	DataFile  string           `json:"dataFile,omitempty"`
}

type PageService struct {
	fs  FileSystem
	cli CLIOutput
}

func NewPageService(fs FileSystem, cli CLIOutput) *PageService {
	return &PageService{
		fs:  fs,
		cli: cli,
	}
}

// WritePages consumes a page stream and writes the artifacts for each page.
// The manifest is written only when the stream ends cleanly.
func (s *PageService) WritePages(ctx context.Context, events <-chan core.Event, input PagesInput) PagesOutput {
	var out PagesOutput
	entries := make(map[string]PageManifestEntry)
	owners := make(map[string]string)

	_, err := ConsumeEvents(ctx, events, func(page core.SetDataForSlug) error {
		page.Normalize()

		if err := core.ValidateSlug(page.Slug); err != nil {
			s.cli.PrintWarning("Skipping %s: %v", page.Slug, err)
			out.Skipped = append(out.Skipped, SkippedPage{Slug: page.Slug, Reason: err.Error()})
			return nil
		}

		rel := page.SlugAsRelativeFilepath()
		if owner, ok := owners[rel]; ok && owner != page.Slug {
			slog.Warn("slugs share an output path", "slug", page.Slug, "other", owner, "path", rel)
			s.cli.PrintWarning("%s and %s both write to %s; the later page overwrites its files", owner, page.Slug, rel)
		}
		owners[rel] = page.Slug

		entry, err := s.writePage(page, input, &out)
		if err != nil {
			return fmt.Errorf("failed to write page %s: %w", page.Slug, err)
		}

		if prev, ok := entries[page.Slug]; ok && entry.DataFile == "" {
			entry.DataFile = prev.DataFile
		}
		entries[page.Slug] = entry
		return nil
	})
	if err != nil {
		out.Error = err
		return out
	}

	out.Pages = make([]PageManifestEntry, 0, len(entries))
	for _, slug := range slices.Sorted(maps.Keys(entries)) {
		out.Pages = append(out.Pages, entries[slug])
	}

	manifest, err := json.Marshal(out.Pages)
	if err != nil {
		out.Error = fmt.Errorf("failed to encode pages manifest: %w", err)
		return out
	}

	out.Manifest = filepath.Join(input.OutDir, PagesManifestName)
	if err := s.write(out.Manifest, pretty.Pretty(manifest), &out); err != nil {
		out.Error = fmt.Errorf("failed to write pages manifest: %w", err)
		return out
	}

	return out
}

func (s *PageService) writePage(page core.SetDataForSlug, input PagesInput, out *PagesOutput) (PageManifestEntry, error) {
	rel := filepath.FromSlash(page.SlugAsRelativeFilepath())

	entry := PageManifestEntry{
		Slug:      page.Slug,
		Path:      page.SlugAsRelativeFilepath(),
		Prerender: page.Prerender,
	}

	if page.HasData() {
		entry.DataFile = filepath.Join(input.OutDir, rel+".json")
		if err := s.write(entry.DataFile, pretty.Pretty(page.Data), out); err != nil {
			return entry, err
		}
	}

	var err error
	entry.Component, err = s.writeModule(page.Component, filepath.Join(input.SourceDir, rel+".js"), out)
	if err != nil {
		return entry, err
	}
	entry.Wrapper, err = s.writeModule(page.Wrapper, filepath.Join(input.SourceDir, rel+".wrapper.js"), out)
	if err != nil {
		return entry, err
	}

	slog.Debug("page written", "slug", page.Slug, "path", entry.Path, "data", entry.DataFile != "")
	return entry, nil
}

// writeModule writes inline source to path and returns a file reference to
// it. File references pass through as given; absent and no-module specs
// come back nil.
func (s *PageService) writeModule(spec *core.ModuleSpec, path string, out *PagesOutput) (*core.ModuleSpec, error) {
	if spec == nil || spec.Mode == core.ModuleNone {
		return nil, nil
	}

	code, ok := spec.Code()
	if !ok {
		ref := *spec
		return &ref, nil
	}

	if err := s.write(path, []byte(code), out); err != nil {
		return nil, err
	}
	ref := core.FileModule(path)
	return &ref, nil
}

func (s *PageService) write(path string, data []byte, out *PagesOutput) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := s.fs.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.cli.PrintFile(path)
	out.Files = append(out.Files, WrittenFile{Path: path, Size: len(data)})
	return nil
}
