package core

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Event is one signal on a page stream: a SetEvent carrying a normalized
// page, or the EndEvent that terminates the stream.
type Event interface {
	event()
}

type SetEvent struct {
	Page SetDataForSlug
}

type EndEvent struct{}

func (SetEvent) event() {}
func (EndEvent) event() {}

// Set normalizes page and wraps it in a SetEvent.
func Set(page SetDataForSlug) SetEvent {
	page.Normalize()
	return SetEvent{Page: page}
}

func End() EndEvent {
	return EndEvent{}
}

const eventSubject = "event"

// ParseEvent decodes a wire envelope: {"type":"set","page":{...}} or
// {"type":"end"}. Set pages come back normalized.
func ParseEvent(data []byte) (Event, error) {
	if err := checkSyntax(eventSubject, data); err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, newParseError(eventSubject, "", "object", root)
	}

	typ := root.Get("type")
	if typ.Type != gjson.String {
		return nil, newParseError(eventSubject, "type", "string", typ)
	}

	switch typ.String() {
	case "set":
		raw := root.Get("page")
		if !raw.IsObject() {
			return nil, newParseError(eventSubject, "page", "object", raw)
		}
		page, err := decodeSetDataForSlug(raw)
		if err != nil {
			return nil, err
		}
		return Set(*page), nil
	case "end":
		return End(), nil
	}

	return nil, &ParseError{
		Subject:  eventSubject,
		Field:    "type",
		Expected: "one of set, end",
		Actual:   fmt.Sprintf("%q", typ.String()),
	}
}

func MarshalEvent(ev Event) ([]byte, error) {
	switch ev := ev.(type) {
	case SetEvent:
		page, err := json.Marshal(ev.Page)
		if err != nil {
			return nil, err
		}
		return sjson.SetRawBytes([]byte(`{"type":"set"}`), "page", page)
	case EndEvent:
		return []byte(`{"type":"end"}`), nil
	}
	return nil, fmt.Errorf("unknown event %T", ev)
}
