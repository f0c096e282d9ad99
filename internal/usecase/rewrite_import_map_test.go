package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/3-lines-studio/pagestream/internal/adapters/fs"
	"github.com/3-lines-studio/pagestream/internal/core"
)

const sourceImportMap = `{
  "imports": {
    "preact/hooks": "./preact/hooks.js",
    "preact": "./preact.js",
    "lodash-es": "https://cdn.skypack.dev/lodash-es",
    "shared": "../shared/index.js"
  }
}`

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func TestRewriteImportMap(t *testing.T) {
	mem := fs.NewMemFileSystem()
	if err := mem.WriteFile("import-map.json", []byte(sourceImportMap), 0644); err != nil {
		t.Fatal(err)
	}

	svc := NewImportMapService(mem)
	result := svc.Rewrite(context.Background(), ImportMapInput{SourcePath: "import-map.json", OutDir: "public"})
	if result.Error != nil {
		t.Fatalf("Rewrite() error = %v", result.Error)
	}

	wantPath := filepath.Join("public", "web_modules", ImportMapName)
	if result.OutputPath != wantPath {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, wantPath)
	}

	written, err := mem.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("import map not written: %v", err)
	}

	snaps.MatchSnapshot(t, string(written))
}

func TestRewriteImportMapDryRun(t *testing.T) {
	mem := fs.NewMemFileSystem()
	_ = mem.WriteFile("map.json", []byte(sourceImportMap), 0644)

	svc := NewImportMapService(mem)
	result := svc.Rewrite(context.Background(), ImportMapInput{SourcePath: "map.json", OutDir: "public", DryRun: true})
	if result.Error != nil {
		t.Fatal(result.Error)
	}
	if mem.FileExists(result.OutputPath) {
		t.Error("dry run must not write")
	}
	if p, _ := result.Map.Resolve("preact"); p != "/web_modules/preact.js" {
		t.Errorf("Resolve(preact) = %q", p)
	}
	if len(result.Rendered) == 0 {
		t.Error("expected rendered output")
	}
}

func TestRewriteImportMapErrors(t *testing.T) {
	mem := fs.NewMemFileSystem()
	_ = mem.WriteFile("bad.json", []byte(`{"imports": []}`), 0644)
	svc := NewImportMapService(mem)

	result := svc.Rewrite(context.Background(), ImportMapInput{SourcePath: "bad.json", OutDir: "out"})
	if !errors.Is(result.Error, core.ErrParse) {
		t.Errorf("expected parse error, got %v", result.Error)
	}
	if result.Map != nil {
		t.Error("expected no map on parse error")
	}
	if mem.FileExists(OutputPath("out")) {
		t.Error("nothing should be written on parse error")
	}

	result = svc.Rewrite(context.Background(), ImportMapInput{SourcePath: "missing.json", OutDir: "out"})
	if result.Error == nil {
		t.Error("expected error for missing source")
	}
}

func TestCheckImportMap(t *testing.T) {
	mem := fs.NewMemFileSystem()
	_ = mem.WriteFile("map.json", []byte(`{"imports":{"a":"./a.js"}}`), 0644)
	svc := NewImportMapService(mem)
	input := ImportMapInput{SourcePath: "map.json", OutDir: "out"}

	check := svc.Check(context.Background(), input)
	if check.Error != nil {
		t.Fatal(check.Error)
	}
	if check.UpToDate {
		t.Error("missing output should not be up to date")
	}
	if !strings.Contains(check.Diff, `+   "imports": {`) {
		t.Errorf("expected insert lines in diff, got:\n%s", check.Diff)
	}

	if r := svc.Rewrite(context.Background(), input); r.Error != nil {
		t.Fatal(r.Error)
	}
	check = svc.Check(context.Background(), input)
	if !check.UpToDate || check.Diff != "" {
		t.Errorf("expected up to date after rewrite, got %+v", check)
	}

	_ = mem.WriteFile("map.json", []byte(`{"imports":{"a":"./b.js"}}`), 0644)
	check = svc.Check(context.Background(), input)
	if check.UpToDate {
		t.Fatal("changed source should not be up to date")
	}
	if !strings.Contains(check.Diff, `-     "a": "/web_modules/a.js"`) || !strings.Contains(check.Diff, `+     "a": "/web_modules/b.js"`) {
		t.Errorf("unexpected diff:\n%s", check.Diff)
	}
}
