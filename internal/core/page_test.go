package core

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

const previewSource = "import { h } from 'preact'; export default props => <div>hi</div>"

func TestParseSetDataForSlugAllFields(t *testing.T) {
	data := `{
		"slug": "/something",
		"component": {"mode": "source", "value": "` + previewSource + `"},
		"data": {"some": "thing"},
		"wrapper": {"mode": "filepath", "value": "./some/where.js"}
	}`

	got, err := ParseSetDataForSlug([]byte(data))
	if err != nil {
		t.Fatalf("ParseSetDataForSlug() error = %v", err)
	}

	component := SourceModule(previewSource)
	wrapper := FileModule("./some/where.js")
	want := &SetDataForSlug{
		Prerender: true,
		Slug:      "/something",
		Component: &component,
		Data:      json.RawMessage(`{"some": "thing"}`),
		Wrapper:   &wrapper,
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseSetDataForSlug() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestParseSetDataForSlugWithoutDataAndWrapper(t *testing.T) {
	got, err := ParseSetDataForSlug([]byte(`{"slug":"/something","component":{"mode":"source","value":"x"}}`))
	if err != nil {
		t.Fatal(err)
	}

	if !got.Prerender {
		t.Error("expected prerender to default to true")
	}
	if got.Data != nil {
		t.Errorf("expected no data, got %s", got.Data)
	}
	if got.Wrapper != nil {
		t.Errorf("expected no wrapper, got %+v", got.Wrapper)
	}
	if got.Component == nil || *got.Component != SourceModule("x") {
		t.Errorf("unexpected component %+v", got.Component)
	}
}

func TestParseSetDataForSlugPrerenderFalse(t *testing.T) {
	got, err := ParseSetDataForSlug([]byte(`{"prerender":false,"slug":"/something"}`))
	if err != nil {
		t.Fatal(err)
	}
	if got.Prerender {
		t.Error("expected prerender false")
	}
}

func TestParseSetDataForSlugNulls(t *testing.T) {
	got, err := ParseSetDataForSlug([]byte(`{"slug":"x","component":null,"wrapper":null,"data":null}`))
	if err != nil {
		t.Fatal(err)
	}
	if got.Component != nil || got.Wrapper != nil || got.Data != nil {
		t.Errorf("expected nulls to decode as absent, got %+v", got)
	}
}

func TestParseSetDataForSlugErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{name: "malformed", input: `{"slug":`, field: ""},
		{name: "array", input: `[1]`, field: ""},
		{name: "missing slug", input: `{"prerender":true}`, field: "slug"},
		{name: "numeric slug", input: `{"slug":4}`, field: "slug"},
		{name: "string prerender", input: `{"slug":"/","prerender":"yes"}`, field: "prerender"},
		{name: "null prerender", input: `{"slug":"/","prerender":null}`, field: "prerender"},
		{name: "bad component mode", input: `{"slug":"/","component":{"mode":"jsx"}}`, field: "component.mode"},
		{name: "wrapper missing value", input: `{"slug":"/","wrapper":{"mode":"filepath"}}`, field: "wrapper.path"},
		{name: "component not object", input: `{"slug":"/","component":"./a.js"}`, field: "component"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := ParseSetDataForSlug([]byte(tt.input))
			if page != nil {
				t.Errorf("expected nil page on error, got %+v", page)
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

func TestNormalizeEndToEnd(t *testing.T) {
	page, err := ParseSetDataForSlug([]byte(`{"slug":"something","component":{"mode":"source","value":"X"},"data":{},"wrapper":{"mode":"filepath","value":"./some/where.js"}}`))
	if err != nil {
		t.Fatal(err)
	}

	page.Normalize()

	if page.Slug != "/something" {
		t.Errorf("Slug = %q, want /something", page.Slug)
	}
	if page.Data != nil {
		t.Errorf("expected empty data to be dropped, got %s", page.Data)
	}
	if page.Wrapper == nil || *page.Wrapper != FileModule("./some/where.js") {
		t.Errorf("wrapper path must be preserved, got %+v", page.Wrapper)
	}
	if page.Component == nil || *page.Component != SourceModule("X") {
		t.Errorf("unexpected component %+v", page.Component)
	}
}

func TestNormalizeData(t *testing.T) {
	tests := []struct {
		name string
		data json.RawMessage
		want json.RawMessage
	}{
		{name: "absent", data: nil, want: nil},
		{name: "empty object", data: json.RawMessage(`{}`), want: nil},
		{name: "empty object with whitespace", data: json.RawMessage("{ \n\t}"), want: nil},
		{name: "non-empty object", data: json.RawMessage(`{"a":1}`), want: json.RawMessage(`{"a":1}`)},
		{name: "empty array kept", data: json.RawMessage(`[]`), want: json.RawMessage(`[]`)},
		{name: "string kept", data: json.RawMessage(`"x"`), want: json.RawMessage(`"x"`)},
		{name: "nested empty kept", data: json.RawMessage(`{"a":{}}`), want: json.RawMessage(`{"a":{}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := SetDataForSlug{Slug: "/", Data: tt.data}
			page.Normalize()
			if string(page.Data) != string(tt.want) {
				t.Errorf("Data = %s, want %s", page.Data, tt.want)
			}
			if (page.Data == nil) != (tt.want == nil) {
				t.Errorf("Data nil = %v, want nil = %v", page.Data == nil, tt.want == nil)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	component := SourceModule("x")
	inputs := []SetDataForSlug{
		{Slug: ""},
		{Slug: "a/b", Data: json.RawMessage(`{}`)},
		{Slug: "/a/b/", Data: json.RawMessage(`{"k":"v"}`), Component: &component},
		{Slug: "//double", Prerender: true},
	}

	for _, in := range inputs {
		once := in
		once.Normalize()
		twice := once
		twice.Normalize()
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Normalize not idempotent for %+v: %+v vs %+v", in, once, twice)
		}
	}
}

func TestSlugAsRelativeFilepath(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"/", "index"},
		{"/something/here", "something/here"},
		{"/something/here/", "something/here/index"},
		{"/a", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			page := SetDataForSlug{Prerender: true, Slug: tt.slug}
			if got := page.SlugAsRelativeFilepath(); got != tt.want {
				t.Errorf("SlugAsRelativeFilepath(%q) = %q, want %q", tt.slug, got, tt.want)
			}
		})
	}
}

func TestSetDataForSlugJSONRoundTrip(t *testing.T) {
	component := FileModule("./pages/about.js")
	page := SetDataForSlug{
		Prerender: false,
		Slug:      "/about",
		Component: &component,
		Data:      json.RawMessage(`{"title":"About"}`),
	}

	data, err := json.Marshal(page)
	if err != nil {
		t.Fatal(err)
	}

	var got SetDataForSlug
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal(%s) error = %v", data, err)
	}
	if !reflect.DeepEqual(got, page) {
		t.Errorf("round trip = %+v, want %+v", got, page)
	}
}
