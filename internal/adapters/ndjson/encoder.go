package ndjson

import (
	"io"

	"github.com/3-lines-studio/pagestream/internal/core"
)

type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Encode(ev core.Event) error {
	data, err := core.MarshalEvent(ev)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = e.w.Write(data)
	return err
}
