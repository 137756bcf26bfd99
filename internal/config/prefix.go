package config

import (
	"path"
	"strings"
)

// NormalizePrefix turns a user supplied store prefix into the form used for object names:
// forward slashes, no leading or trailing slash, no empty segments.
func NormalizePrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	prefix = strings.ReplaceAll(prefix, "\\", "/")
	for strings.Contains(prefix, "//") {
		prefix = strings.ReplaceAll(prefix, "//", "/")
	}

	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return path.Clean(prefix)
}
