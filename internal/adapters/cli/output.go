package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

type Output struct {
	out    io.Writer
	errOut io.Writer
	green  *color.Color
	yellow *color.Color
	red    *color.Color
	gray   *color.Color
}

func NewOutput() *Output {
	return NewOutputTo(os.Stdout, os.Stderr)
}

func NewOutputTo(out, errOut io.Writer) *Output {
	return &Output{
		out:    out,
		errOut: errOut,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		gray:   color.New(color.FgHiBlack),
	}
}

func (o *Output) DisableColors() {
	for _, c := range []*color.Color{o.green, o.yellow, o.red, o.gray} {
		c.DisableColor()
	}
}

func (o *Output) Green(text string) string {
	return o.green.Sprint(text)
}

func (o *Output) Yellow(text string) string {
	return o.yellow.Sprint(text)
}

func (o *Output) Red(text string) string {
	return o.red.Sprint(text)
}

func (o *Output) Gray(text string) string {
	return o.gray.Sprint(text)
}

func (o *Output) PrintHeader(msg string) {
	fmt.Fprintln(o.out, msg)
	fmt.Fprintln(o.out)
}

func (o *Output) PrintStep(emoji, msg string, args ...any) {
	if emoji != "" {
		msg = emoji + " " + msg
	}
	fmt.Fprintf(o.out, "  "+msg+"\n", args...)
}

func (o *Output) PrintSuccess(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(o.out, "  "+o.Green("✓ ")+"%s\n", formatted)
}

func (o *Output) PrintWarning(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(o.out, "  "+o.Yellow("⚠ ")+"%s\n", formatted)
}

func (o *Output) PrintError(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(o.errOut, "  "+o.Red("✗ ")+"%s\n", formatted)
}

func (o *Output) PrintFile(path string) {
	fmt.Fprintf(o.out, "    %s\n", o.Gray(path))
}

func (o *Output) PrintDone(msg string) {
	fmt.Fprintln(o.out, msg)
}

// PrintDiff prints a line diff with added lines green and removed lines red.
func (o *Output) PrintDiff(diff string) {
	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(o.out, o.Green(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(o.out, o.Red(line))
		default:
			fmt.Fprintln(o.out, line)
		}
	}
}
