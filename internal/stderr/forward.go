package stderr

import (
	"bufio"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Messages receives captured stderr lines.
// Callers should read from this channel to display errors in the UI.
var Messages = make(chan string, 100)

// forward logs each non-empty line read from r and offers it to out,
// dropping it when out is full. It returns when r is closed.
func forward(r io.Reader, log zerolog.Logger, out chan<- string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		log.Warn().Str("component", "stderr").Msg(line)
		select {
		case out <- line:
		default:
			// Channel full, drop message to avoid blocking
		}
	}
}
