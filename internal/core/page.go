package core

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

const pageSubject = "page"

// SetDataForSlug describes one page: where it lives, what renders it and
// the data handed to the component.
type SetDataForSlug struct {
	Prerender bool            `json:"prerender"`
	Slug      string          `json:"slug"`
	Component *ModuleSpec     `json:"component,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Wrapper   *ModuleSpec     `json:"wrapper,omitempty"`
}

func ParseSetDataForSlug(data []byte) (*SetDataForSlug, error) {
	if err := checkSyntax(pageSubject, data); err != nil {
		return nil, err
	}
	return decodeSetDataForSlug(gjson.ParseBytes(data))
}

func decodeSetDataForSlug(root gjson.Result) (*SetDataForSlug, error) {
	if !root.IsObject() {
		return nil, newParseError(pageSubject, "", "object", root)
	}

	page := &SetDataForSlug{Prerender: true}

	if prerender := root.Get("prerender"); prerender.Exists() {
		if prerender.Type != gjson.True && prerender.Type != gjson.False {
			return nil, newParseError(pageSubject, "prerender", "boolean", prerender)
		}
		page.Prerender = prerender.Bool()
	}

	slug := root.Get("slug")
	if slug.Type != gjson.String {
		return nil, newParseError(pageSubject, "slug", "string", slug)
	}
	page.Slug = slug.String()

	var err error
	if page.Component, err = decodeOptionalModule(root, "component"); err != nil {
		return nil, err
	}
	if page.Wrapper, err = decodeOptionalModule(root, "wrapper"); err != nil {
		return nil, err
	}

	if data := root.Get("data"); data.Exists() && data.Type != gjson.Null {
		page.Data = json.RawMessage(data.Raw)
	}

	return page, nil
}

// decodeOptionalModule treats a missing field and an explicit null the same.
func decodeOptionalModule(root gjson.Result, field string) (*ModuleSpec, error) {
	r := root.Get(field)
	if !r.Exists() || r.Type == gjson.Null {
		return nil, nil
	}
	spec, err := decodeModuleSpec(pageSubject, field, r)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func (p *SetDataForSlug) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSetDataForSlug(data)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

// Normalize makes the slug absolute and drops data that is an empty object,
// so an empty object never creates or overwrites a data file.
func (p *SetDataForSlug) Normalize() {
	p.Slug = NormalizeSlug(p.Slug)

	if isEmptyObject(p.Data) {
		p.Data = nil
	}
}

func (p *SetDataForSlug) SlugAsRelativeFilepath() string {
	return SlugToRelativePath(p.Slug)
}

func (p *SetDataForSlug) HasData() bool {
	return len(p.Data) > 0
}

func isEmptyObject(data json.RawMessage) bool {
	if len(data) == 0 {
		return false
	}
	r := gjson.ParseBytes(data)
	if !r.IsObject() {
		return false
	}
	empty := true
	r.ForEach(func(_, _ gjson.Result) bool {
		empty = false
		return false
	})
	return empty
}
