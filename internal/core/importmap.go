package core

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// WebModulesPrefix is the mount point relative import map values resolve under.
const WebModulesPrefix = "/web_modules/"

const importMapSubject = "import map"

type ImportMap struct {
	Imports map[string]string `json:"imports"`
}

type ImportEntry struct {
	Specifier string
	Path      string
}

// ParseImportMap parses an import map document and rewrites every value
// starting with "./" to live under WebModulesPrefix.
func ParseImportMap(data []byte) (*ImportMap, error) {
	if err := checkSyntax(importMapSubject, data); err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, newParseError(importMapSubject, "", "object", root)
	}

	imports := root.Get("imports")
	if !imports.IsObject() {
		return nil, newParseError(importMapSubject, "imports", "object", imports)
	}

	m := make(map[string]string)
	var perr *ParseError
	imports.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			perr = newParseError(importMapSubject, "imports."+key.String(), "string", value)
			return false
		}
		m[key.String()] = RewriteImportPath(value.String())
		return true
	})
	if perr != nil {
		return nil, perr
	}

	return &ImportMap{Imports: m}, nil
}

// RewriteImportPath maps "./x" to "/web_modules/x", stripping every
// leading "./". Other values, including "../x", are returned untouched.
func RewriteImportPath(value string) string {
	if !strings.HasPrefix(value, "./") {
		return value
	}
	rest := value
	for strings.HasPrefix(rest, "./") {
		rest = rest[len("./"):]
	}
	return WebModulesPrefix + rest
}

func (m ImportMap) Specifiers() []string {
	return slices.Sorted(maps.Keys(m.Imports))
}

func (m ImportMap) Entries() []ImportEntry {
	keys := m.Specifiers()
	entries := make([]ImportEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, ImportEntry{Specifier: k, Path: m.Imports[k]})
	}
	return entries
}

func (m ImportMap) Resolve(specifier string) (string, bool) {
	p, ok := m.Imports[specifier]
	return p, ok
}

// MarshalJSON writes imports sorted by specifier.
func (m ImportMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"imports":{`)
	for i, e := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Specifier)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Path)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// UnmarshalJSON parses through ParseImportMap so decoded values are
// always rewritten.
func (m *ImportMap) UnmarshalJSON(data []byte) error {
	parsed, err := ParseImportMap(data)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

func checkSyntax(subject string, data []byte) error {
	if gjson.ValidBytes(data) {
		return nil
	}
	var v any
	return &ParseError{
		Subject:  subject,
		Expected: "valid JSON",
		Err:      json.Unmarshal(data, &v),
	}
}
