package objectstore

import (
	"context"
	"io"
	"net/url"
	"path"
	"strings"
)

// Store keeps uploaded files and hands back a URL the viewer can fetch them from.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// Key is the object name for a file uploaded under id: "{id}/{fileName}".
func Key(id, fileName string) string {
	name := strings.ReplaceAll(fileName, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		name = "file.pdf"
	}
	return id + "/" + name
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
