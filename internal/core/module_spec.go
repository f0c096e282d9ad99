package core

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

type ModuleMode int

const (
	ModuleNone ModuleMode = iota
	ModuleFile
	ModuleSource
)

func (m ModuleMode) String() string {
	switch m {
	case ModuleNone:
		return "no-module"
	case ModuleFile:
		return "filepath"
	case ModuleSource:
		return "source"
	}
	return fmt.Sprintf("ModuleMode(%d)", int(m))
}

// ModuleSpec says how a component or wrapper is supplied. Value holds the
// file path for ModuleFile and the source text for ModuleSource.
type ModuleSpec struct {
	Mode  ModuleMode
	Value string
}

func NoModule() ModuleSpec {
	return ModuleSpec{Mode: ModuleNone}
}

func FileModule(path string) ModuleSpec {
	return ModuleSpec{Mode: ModuleFile, Value: path}
}

func SourceModule(code string) ModuleSpec {
	return ModuleSpec{Mode: ModuleSource, Value: code}
}

func (m ModuleSpec) Path() (string, bool) {
	if m.Mode != ModuleFile {
		return "", false
	}
	return m.Value, true
}

func (m ModuleSpec) Code() (string, bool) {
	if m.Mode != ModuleSource {
		return "", false
	}
	return m.Value, true
}

type moduleDecoder func(subject, field string, obj gjson.Result) (ModuleSpec, error)

// moduleModes maps every accepted mode tag, canonical and legacy, to its decoder.
var moduleModes = map[string]moduleDecoder{
	"NoModule":  decodeNoModule,
	"no-module": decodeNoModule,
	"File":      payloadDecoder(ModuleFile, "path"),
	"filepath":  payloadDecoder(ModuleFile, "path"),
	"Source":    payloadDecoder(ModuleSource, "code"),
	"source":    payloadDecoder(ModuleSource, "code"),
}

func decodeNoModule(string, string, gjson.Result) (ModuleSpec, error) {
	return NoModule(), nil
}

func payloadDecoder(mode ModuleMode, canonicalKey string) moduleDecoder {
	return func(subject, field string, obj gjson.Result) (ModuleSpec, error) {
		key := "value"
		payload := obj.Get(key)
		if !payload.Exists() {
			if canonical := obj.Get(canonicalKey); canonical.Exists() {
				key, payload = canonicalKey, canonical
			}
		}
		if payload.Type != gjson.String {
			return ModuleSpec{}, newParseError(subject, joinField(field, key), "string", payload)
		}
		return ModuleSpec{Mode: mode, Value: payload.String()}, nil
	}
}

func ParseModuleSpec(data []byte) (ModuleSpec, error) {
	if err := checkSyntax("module spec", data); err != nil {
		return ModuleSpec{}, err
	}
	return decodeModuleSpec("module spec", "", gjson.ParseBytes(data))
}

func decodeModuleSpec(subject, field string, obj gjson.Result) (ModuleSpec, error) {
	if !obj.IsObject() {
		return ModuleSpec{}, newParseError(subject, field, "object", obj)
	}

	mode := obj.Get("mode")
	if mode.Type != gjson.String {
		return ModuleSpec{}, newParseError(subject, joinField(field, "mode"), "string", mode)
	}

	decode, ok := moduleModes[mode.String()]
	if !ok {
		return ModuleSpec{}, &ParseError{
			Subject:  subject,
			Field:    joinField(field, "mode"),
			Expected: "one of no-module, filepath, source",
			Actual:   fmt.Sprintf("%q", mode.String()),
		}
	}
	return decode(subject, field, obj)
}

func (m ModuleSpec) MarshalJSON() ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "mode", m.Mode.String())
	if err != nil {
		return nil, err
	}
	if m.Mode == ModuleNone {
		return out, nil
	}
	return sjson.SetBytes(out, "value", m.Value)
}

func (m *ModuleSpec) UnmarshalJSON(data []byte) error {
	spec, err := ParseModuleSpec(data)
	if err != nil {
		return err
	}
	*m = spec
	return nil
}

func joinField(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

var _ json.Marshaler = ModuleSpec{}
