// Package tags reads the metadata shown for the current source.
package tags

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Tag is the display metadata of a source.
type Tag struct {
	Source string
	Title  string
	Artist string
	Album  string
	Year   int
}

// Display returns "Artist - Title", or just the title when the artist is
// unknown.
func (t Tag) Display() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

// Read reads tag metadata from an audio file.
func Read(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(m.Title())
	if title == "" {
		title = baseName(path)
	}

	return &Tag{
		Source: path,
		Title:  title,
		Artist: strings.TrimSpace(m.Artist()),
		Album:  strings.TrimSpace(m.Album()),
		Year:   m.Year(),
	}, nil
}

// Lookup returns display metadata for any source the player accepts. It
// never fails: untagged files fall back to their file name and generated
// sources get a descriptive title.
func Lookup(source string) Tag {
	if rest, ok := strings.CutPrefix(source, "tone:"); ok {
		freq, _, _ := strings.Cut(rest, "?")
		if freq == "" {
			freq = "440"
		}
		return Tag{Source: source, Title: "Tone " + freq + " Hz"}
	}

	path := LocalPath(source)
	if t, err := Read(path); err == nil {
		t.Source = source
		return *t
	}
	return Tag{Source: source, Title: baseName(path)}
}

// LocalPath returns the file path of a plain or file:// source, and ""
// for generated sources.
func LocalPath(source string) string {
	if strings.HasPrefix(source, "tone:") {
		return ""
	}
	if u, err := url.Parse(source); err == nil && u.Scheme == "file" {
		return u.Path
	}
	return source
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
