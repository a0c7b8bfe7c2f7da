package detector

import (
	"io"
	"io/fs"
)

// fsReader wraps an fs.FS with the small read surface detection needs.
type fsReader struct {
	fsys fs.FS
}

// Has checks if a file exists at the given path.
func (r fsReader) Has(path string) bool {
	_, err := fs.Stat(r.fsys, path)
	return err == nil
}

// Read reads a file and returns its content, or "" if unreadable.
func (r fsReader) Read(path string) string {
	f, err := r.fsys.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return ""
	}
	return string(data)
}

// DirExists checks if a directory exists at the given path.
func (r fsReader) DirExists(path string) bool {
	fi, err := fs.Stat(r.fsys, path)
	return err == nil && fi.IsDir()
}
