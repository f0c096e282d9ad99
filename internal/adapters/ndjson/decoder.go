package ndjson

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/3-lines-studio/pagestream/internal/core"
)

// maxLineSize bounds a single event line. Inline component sources travel
// on one line, so the default scanner limit is too small.
const maxLineSize = 16 << 20

// Decoder reads one event per line. Blank lines are skipped.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Decoder{scanner: scanner}
}

// Next returns the next event, or io.EOF when the input is exhausted.
func (d *Decoder) Next() (core.Event, error) {
	for d.scanner.Scan() {
		d.line++
		line := bytes.TrimSpace(d.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		ev, err := core.ParseEvent(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", d.line, err)
		}
		return ev, nil
	}

	if err := d.scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", d.line+1, err)
	}
	return nil, io.EOF
}

func (d *Decoder) Line() int {
	return d.line
}
