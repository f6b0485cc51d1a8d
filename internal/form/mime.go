package form

import (
	"mime"
	"net/http"
	"path/filepath"
)

// guessContentType picks a type by extension first and falls back to content
// sniffing. An empty picked file is sent as application/octet-stream.
func guessContentType(name string, content []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	if len(content) == 0 {
		return "application/octet-stream"
	}
	return http.DetectContentType(content)
}
