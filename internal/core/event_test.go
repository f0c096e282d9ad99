package core

import (
	"errors"
	"testing"
)

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"type":"set","page":{"slug":"docs","data":{}}}`))
	if err != nil {
		t.Fatalf("ParseEvent() error = %v", err)
	}
	set, ok := ev.(SetEvent)
	if !ok {
		t.Fatalf("expected SetEvent, got %T", ev)
	}
	if set.Page.Slug != "/docs" || set.Page.Data != nil || !set.Page.Prerender {
		t.Errorf("page not normalized: %+v", set.Page)
	}

	ev, err = ParseEvent([]byte(`{"type":"end"}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ev.(EndEvent); !ok {
		t.Errorf("expected EndEvent, got %T", ev)
	}
}

func TestParseEventErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{name: "malformed", input: `{"type":`, field: ""},
		{name: "not object", input: `"end"`, field: ""},
		{name: "missing type", input: `{}`, field: "type"},
		{name: "unknown type", input: `{"type":"reset"}`, field: "type"},
		{name: "set without page", input: `{"type":"set"}`, field: "page"},
		{name: "set with bad page", input: `{"type":"set","page":{"slug":1}}`, field: "slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseEvent([]byte(tt.input))
			if ev != nil {
				t.Errorf("expected nil event, got %v", ev)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if perr.Field != tt.field {
				t.Errorf("Field = %q, want %q", perr.Field, tt.field)
			}
		})
	}
}

func TestMarshalEventRoundTrip(t *testing.T) {
	wrapper := FileModule("./layout.js")
	events := []Event{
		Set(SetDataForSlug{Prerender: false, Slug: "/x/", Data: []byte(`{"a":[1,2]}`), Wrapper: &wrapper}),
		End(),
	}

	for _, ev := range events {
		data, err := MarshalEvent(ev)
		if err != nil {
			t.Fatalf("MarshalEvent() error = %v", err)
		}
		got, err := ParseEvent(data)
		if err != nil {
			t.Fatalf("ParseEvent(%s) error = %v", data, err)
		}

		switch want := ev.(type) {
		case SetEvent:
			set, ok := got.(SetEvent)
			if !ok {
				t.Fatalf("expected SetEvent, got %T", got)
			}
			if set.Page.Slug != want.Page.Slug || set.Page.Prerender != want.Page.Prerender {
				t.Errorf("round trip = %+v, want %+v", set.Page, want.Page)
			}
			if string(set.Page.Data) != string(want.Page.Data) {
				t.Errorf("data = %s, want %s", set.Page.Data, want.Page.Data)
			}
			if set.Page.Wrapper == nil || *set.Page.Wrapper != wrapper {
				t.Errorf("wrapper = %+v", set.Page.Wrapper)
			}
		case EndEvent:
			if _, ok := got.(EndEvent); !ok {
				t.Errorf("expected EndEvent, got %T", got)
			}
		}
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := ParseSetDataForSlug([]byte(`{"slug":"/","wrapper":{"mode":"filepath","value":5}}`))
	if err == nil {
		t.Fatal("expected error")
	}
	want := `failed to parse page: field "wrapper.value": expected string, got number`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
