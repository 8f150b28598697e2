// Package pathutil provides path-to-object-key normalization for bucketfs.
package pathutil

import (
	"path"
	"strings"
)

// FileKey converts a filesystem path to the object key of a file link:
// no leading separator, no trailing separator.
func FileKey(p string) string {
	return strings.Trim(p, "/")
}

// DirectoryKey converts a filesystem path to the object key of a directory
// marker. The result ends with exactly one trailing separator; the root maps
// to the empty key. Every "is this object the directory itself" comparison
// must use this normalized form.
func DirectoryKey(p string) string {
	key := strings.Trim(p, "/")
	if key == "" {
		return ""
	}
	return key + "/"
}

// ToPath converts an object key back to a rooted filesystem path. Directory
// marker keys keep their trailing separator stripped.
func ToPath(key string) string {
	key = strings.TrimSuffix(key, "/")
	if key == "" {
		return "/"
	}
	return "/" + key
}

// BaseName returns the last path element of a key, ignoring a trailing
// separator on directory marker keys.
func BaseName(key string) string {
	key = strings.TrimSuffix(key, "/")
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}

// HasExtension reports whether the last path element carries a
// file-extension-like suffix. Paths without one are ambiguous between a file
// and a directory marker and are eligible for the directory-key lookup
// fallback.
func HasExtension(p string) bool {
	return path.Ext(strings.TrimSuffix(p, "/")) != ""
}
