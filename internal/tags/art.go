package tags

import (
	"os"
	"path/filepath"
)

// artNames lists cover image names in priority order.
var artNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// ArtPath returns the cover image next to a file source, or "".
func ArtPath(source string) string {
	path := LocalPath(source)
	if path == "" {
		return ""
	}
	dir := filepath.Dir(path)
	for _, name := range artNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
