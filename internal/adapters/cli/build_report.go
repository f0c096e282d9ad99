package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

type BuildStep struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
	Error     string
}

type BuildError struct {
	Page    string
	Message string
	Details []string
}

type BuildReport struct {
	out         *Output
	steps       []BuildStep
	warnings    []BuildError
	errors      []BuildError
	startTime   time.Time
	now         func() time.Time
	pageCount   int
	fileCount   int
	bytes       uint64
	outputDir   string
	hasFailures bool
}

func NewBuildReport(out *Output, outputDir string) *BuildReport {
	return &BuildReport{
		out:       out,
		steps:     make([]BuildStep, 0),
		warnings:  make([]BuildError, 0),
		errors:    make([]BuildError, 0),
		startTime: time.Now(),
		now:       time.Now,
		outputDir: outputDir,
	}
}

func (r *BuildReport) SetPageCount(count int) {
	r.pageCount = count
}

func (r *BuildReport) AddFile(size int) {
	r.fileCount++
	r.bytes += uint64(size)
}

func (r *BuildReport) StartStep(name string) *BuildStep {
	step := BuildStep{
		Name:      name,
		StartTime: r.now(),
	}
	r.steps = append(r.steps, step)
	return &r.steps[len(r.steps)-1]
}

func (r *BuildReport) EndStep(step *BuildStep, success bool, err string) {
	step.EndTime = r.now()
	step.Success = success
	step.Error = err
	if !success {
		r.hasFailures = true
	}
}

func (r *BuildReport) AddWarning(page string, message string, details []string) {
	r.warnings = append(r.warnings, BuildError{
		Page:    page,
		Message: message,
		Details: details,
	})
}

func (r *BuildReport) AddError(page string, message string, details []string) {
	r.errors = append(r.errors, BuildError{
		Page:    page,
		Message: message,
		Details: details,
	})
	r.hasFailures = true
}

func (r *BuildReport) Render() {
	duration := r.now().Sub(r.startTime)

	if len(r.errors) == 0 && len(r.warnings) == 0 {
		r.renderMinimal(duration)
	} else {
		r.renderVerbose(duration)
	}
}

func (r *BuildReport) renderMinimal(duration time.Duration) {
	w := r.out.out
	fmt.Fprintf(w, "  "+r.out.Green("✓ ")+"%d pages, %s\n", r.pageCount, r.fileSummary())

	var failed []string
	for _, step := range r.steps {
		if !step.Success {
			failed = append(failed, "  "+r.out.Red("✗ ")+step.Name)
		}
	}

	if len(failed) == 0 {
		fmt.Fprintf(w, "  "+r.out.Green("✓ ")+"Build complete in %s\n", formatDuration(duration))
	} else {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failed steps:")
		for _, line := range failed {
			fmt.Fprintln(w, line)
		}
	}

	if r.outputDir != "" {
		fmt.Fprintf(w, "\n  %s\n", r.out.Gray("Output: "+r.outputDir))
	}
}

func (r *BuildReport) renderVerbose(duration time.Duration) {
	w := r.out.out
	fmt.Fprintf(w, "  %d pages, %s\n", r.pageCount, r.fileSummary())

	fmt.Fprintln(w)
	for _, step := range r.steps {
		status := r.out.Green("✓")
		if !step.Success {
			status = r.out.Red("✗")
		}
		fmt.Fprintf(w, "  %s %s\n", status, step.Name)
	}

	if len(r.errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(r.out.errOut, "  "+r.out.Red("✗ ")+"Errors (%d):\n", len(r.errors))
		r.renderErrors(r.errors)
	}

	if len(r.warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  "+r.out.Yellow("⚠ ")+"Warnings (%d):\n", len(r.warnings))
		r.renderErrors(r.warnings)
	}

	fmt.Fprintln(w)
	if len(r.errors) > 0 {
		fmt.Fprintf(r.out.errOut, "  %s\n", r.out.Red(fmt.Sprintf("Build failed after %s", formatDuration(duration))))
	} else {
		fmt.Fprintf(w, "  "+r.out.Green("✓ ")+"Build complete in %s\n", formatDuration(duration))
	}

	if r.outputDir != "" {
		fmt.Fprintf(w, "\n  %s\n", r.out.Gray("Output: "+r.outputDir))
	}
}

func (r *BuildReport) renderErrors(errors []BuildError) {
	w := r.out.out
	for _, err := range errors {
		fmt.Fprintf(w, "  %s %s\n", r.out.Red("✗"), err.Page)
		fmt.Fprintf(w, "    %s\n", err.Message)

		for _, detail := range deduplicateStrings(err.Details) {
			fmt.Fprintf(w, "      • %s\n", detail)
		}
	}
}

func (r *BuildReport) HasFailures() bool {
	return r.hasFailures
}

func (r *BuildReport) fileSummary() string {
	noun := "files"
	if r.fileCount == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s (%s)", r.fileCount, noun, humanize.Bytes(r.bytes))
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}

// deduplicateStrings keeps first-occurrence order and annotates repeats.
func deduplicateStrings(items []string) []string {
	if len(items) <= 1 {
		return items
	}

	counts := make(map[string]int)
	order := make([]string, 0, len(items))
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}

	result := make([]string, 0, len(order))
	for _, item := range order {
		if counts[item] > 1 {
			result = append(result, fmt.Sprintf("%s (%d occurrences)", item, counts[item]))
		} else {
			result = append(result, item)
		}
	}

	return result
}
