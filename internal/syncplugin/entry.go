package syncplugin

import "github.com/moerwald/quartznet/internal/resolver"

// FileEntry holds the resolution state of one configured file reference.
// It is owned exclusively by the plugin; re-resolving an unchanged
// reference yields the same outcome.
type FileEntry struct {
	// Reference is the file reference as configured.
	Reference string
	// Path is the resolved location (absolute path or URL). Best-effort
	// even when the file was not found, so scan jobs can still key on it.
	Path string
	// BaseName is the final path segment of the resolved location.
	BaseName string
	// Found reports whether the reference resolved to readable data.
	Found bool

	resolver *resolver.Resolver
}

func newFileEntry(reference string, res *resolver.Resolver) *FileEntry {
	return &FileEntry{Reference: reference, resolver: res}
}

// Resolve (re-)runs resolution for the entry's reference.
func (e *FileEntry) Resolve() {
	res := e.resolver.Resolve(e.Reference)
	e.Found = res.Found
	e.Path = res.Path
	e.BaseName = res.BaseName
}
