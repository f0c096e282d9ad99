package core

import (
	"fmt"
	"strings"
)

func NormalizeSlug(slug string) string {
	if !strings.HasPrefix(slug, "/") {
		slug = "/" + slug
	}
	return slug
}

// SlugToRelativePath turns "/a/b" into "a/b" and "/a/b/" into "a/b/index".
// The root slug maps to "index".
func SlugToRelativePath(slug string) string {
	rel := strings.TrimLeft(slug, "/")
	if strings.HasSuffix(slug, "/") {
		return rel + "index"
	}
	return rel
}

// ValidateSlug rejects slugs that cannot be written below an output
// directory. Normalization never calls it; writers do.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug cannot be empty")
	}

	if !strings.HasPrefix(slug, "/") {
		return fmt.Errorf("slug must start with /")
	}

	if strings.Contains(slug, "?") {
		return fmt.Errorf("slug cannot contain query string")
	}

	if strings.Contains(slug, "#") {
		return fmt.Errorf("slug cannot contain fragment")
	}

	if strings.Contains(slug, "\\") {
		return fmt.Errorf("slug cannot contain backslashes")
	}

	for _, segment := range strings.Split(slug, "/") {
		if segment == ".." || segment == "." {
			return fmt.Errorf("slug cannot contain relative segment %q", segment)
		}
	}

	return nil
}
