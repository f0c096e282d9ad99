// Package pagestream rewrites browser import maps for a /web_modules/
// layout and models the per-page event stream a static site build emits:
// a sequence of set events, each describing one page, closed by a single
// end event.
package pagestream

import (
	"context"

	"github.com/3-lines-studio/pagestream/internal/core"
	"github.com/3-lines-studio/pagestream/internal/usecase"
)

const WebModulesPrefix = core.WebModulesPrefix

type ImportMap = core.ImportMap

type ImportEntry = core.ImportEntry

type ModuleMode = core.ModuleMode

const (
	ModuleNone   = core.ModuleNone
	ModuleFile   = core.ModuleFile
	ModuleSource = core.ModuleSource
)

type ModuleSpec = core.ModuleSpec

type SetDataForSlug = core.SetDataForSlug

type Event = core.Event

type SetEvent = core.SetEvent

type EndEvent = core.EndEvent

type ParseError = core.ParseError

type ProtocolViolationError = core.ProtocolViolationError

// Emitter is the producer side of a page stream.
type Emitter = usecase.Emitter

var (
	ErrParse             = core.ErrParse
	ErrProtocolViolation = core.ErrProtocolViolation
	ErrStreamTruncated   = core.ErrStreamTruncated
)

// ParseImportMap decodes an import map and rewrites every value starting
// with "./" to live under /web_modules/.
func ParseImportMap(data []byte) (*ImportMap, error) {
	return core.ParseImportMap(data)
}

func ParseModuleSpec(data []byte) (ModuleSpec, error) {
	return core.ParseModuleSpec(data)
}

// ParseSetDataForSlug decodes a page. Prerender defaults to true when the
// field is missing. The result is not normalized.
func ParseSetDataForSlug(data []byte) (*SetDataForSlug, error) {
	return core.ParseSetDataForSlug(data)
}

func ParseEvent(data []byte) (Event, error) {
	return core.ParseEvent(data)
}

func MarshalEvent(ev Event) ([]byte, error) {
	return core.MarshalEvent(ev)
}

func NoModule() ModuleSpec {
	return core.NoModule()
}

func FileModule(path string) ModuleSpec {
	return core.FileModule(path)
}

func SourceModule(code string) ModuleSpec {
	return core.SourceModule(code)
}

// Set normalizes page and wraps it in a set event.
func Set(page SetDataForSlug) SetEvent {
	return core.Set(page)
}

func End() EndEvent {
	return core.End()
}

// NewPageStream returns a connected emitter and the channel its events
// arrive on. The channel is closed after the end event.
func NewPageStream(buffer int) (*Emitter, <-chan Event) {
	return usecase.NewPageStream(buffer)
}

// ConsumeEvents calls handle for every page in order and returns the
// number handled as soon as the end event arrives. An event already
// buffered behind it is an error wrapping ErrProtocolViolation; a channel
// closed before it yields ErrStreamTruncated.
func ConsumeEvents(ctx context.Context, events <-chan Event, handle func(SetDataForSlug) error) (int, error) {
	return usecase.ConsumeEvents(ctx, events, handle)
}
