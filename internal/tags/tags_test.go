package tags

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// id3Frame encodes an ID3v2.3 text frame with ISO-8859-1 content.
func id3Frame(id, text string) []byte {
	body := append([]byte{0x00}, text...)
	frame := make([]byte, 10, 10+len(body))
	copy(frame, id)
	binary.BigEndian.PutUint32(frame[4:8], uint32(len(body)))
	return append(frame, body...)
}

// writeTaggedMP3 writes an ID3v2.3 header followed by filler bytes.
func writeTaggedMP3(t *testing.T, frames ...[]byte) string {
	t.Helper()

	var payload []byte
	for _, f := range frames {
		payload = append(payload, f...)
	}
	size := len(payload)
	header := []byte{
		'I', 'D', '3', 0x03, 0x00, 0x00,
		byte(size>>21&0x7f), byte(size>>14&0x7f), byte(size>>7&0x7f), byte(size&0x7f),
	}
	data := append(header, payload...)
	data = append(data, make([]byte, 128)...)

	path := filepath.Join(t.TempDir(), "episode.mp3")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestRead_ID3(t *testing.T) {
	path := writeTaggedMP3(t,
		id3Frame("TIT2", "Episode 12"),
		id3Frame("TPE1", "The Hosts"),
		id3Frame("TALB", "Season 2"),
	)

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Title != "Episode 12" {
		t.Errorf("Title = %q, want %q", got.Title, "Episode 12")
	}
	if got.Artist != "The Hosts" {
		t.Errorf("Artist = %q, want %q", got.Artist, "The Hosts")
	}
	if got.Album != "Season 2" {
		t.Errorf("Album = %q, want %q", got.Album, "Season 2")
	}
	if got.Display() != "The Hosts - Episode 12" {
		t.Errorf("Display() = %q", got.Display())
	}
}

func TestRead_MissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.mp3")); err == nil {
		t.Error("Read() expected error for missing file")
	}
}

func TestLookup(t *testing.T) {
	tagged := writeTaggedMP3(t, id3Frame("TIT2", "Tagged"))

	untagged := filepath.Join(t.TempDir(), "Lecture 03.wav")
	if err := os.WriteFile(untagged, make([]byte, 64), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "tone with frequency", source: "tone:220?duration=5s", want: "Tone 220 Hz"},
		{name: "tone default", source: "tone:", want: "Tone 440 Hz"},
		{name: "tagged file", source: tagged, want: "Tagged"},
		{name: "file uri", source: "file://" + tagged, want: "Tagged"},
		{name: "untagged falls back to name", source: untagged, want: "Lecture 03"},
		{name: "missing falls back to name", source: "/nowhere/talk.ogg", want: "talk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lookup(tt.source)
			if got.Title != tt.want {
				t.Errorf("Lookup(%q).Title = %q, want %q", tt.source, got.Title, tt.want)
			}
			if got.Source != tt.source {
				t.Errorf("Lookup(%q).Source = %q", tt.source, got.Source)
			}
		})
	}
}

func TestDisplay_NoArtist(t *testing.T) {
	if got := (Tag{Title: "Solo"}).Display(); got != "Solo" {
		t.Errorf("Display() = %q, want %q", got, "Solo")
	}
}
