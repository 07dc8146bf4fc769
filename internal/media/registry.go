package media

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
	extOGA  = ".oga"

	// DefaultPacketFrames is the number of frames read per packet.
	DefaultPacketFrames = 1024
	// DefaultInputQueue is the number of packets the codec can hold.
	DefaultInputQueue = 4
)

// OpenFunc opens an Extractor for a source.
type OpenFunc func(ctx context.Context, source string) (Extractor, error)

// Registry is an Opener selecting an extractor by URI scheme or file
// extension and pairing it with a PCMCodec.
type Registry struct {
	byScheme     map[string]OpenFunc
	byExt        map[string]OpenFunc
	packetFrames int
	inputQueue   int
}

// NewRegistry returns a Registry that knows MP3, FLAC, WAV, Ogg Vorbis files
// and tone: sources. Non-positive sizes select the defaults.
func NewRegistry(packetFrames, inputQueue int) *Registry {
	if packetFrames <= 0 {
		packetFrames = DefaultPacketFrames
	}
	if inputQueue <= 0 {
		inputQueue = DefaultInputQueue
	}
	r := &Registry{
		byScheme:     make(map[string]OpenFunc),
		byExt:        make(map[string]OpenFunc),
		packetFrames: packetFrames,
		inputQueue:   inputQueue,
	}
	r.RegisterScheme(SchemeTone, openTone)
	r.RegisterExt(extMP3, fileOpener(openMP3))
	r.RegisterExt(extFLAC, fileOpener(openFLAC))
	r.RegisterExt(extWAV, fileOpener(openWAV))
	r.RegisterExt(extOGG, fileOpener(openVorbis))
	r.RegisterExt(extOGA, fileOpener(openVorbis))
	return r
}

// RegisterScheme installs fn for sources of the form "scheme:...".
func (r *Registry) RegisterScheme(scheme string, fn OpenFunc) {
	r.byScheme[strings.ToLower(scheme)] = fn
}

// RegisterExt installs fn for paths with the given extension (".mp3").
func (r *Registry) RegisterExt(ext string, fn OpenFunc) {
	r.byExt[strings.ToLower(ext)] = fn
}

// Supported reports whether Open would pick an extractor for source.
func (r *Registry) Supported(source string) bool {
	_, err := r.lookup(source)
	return err == nil
}

// Open implements Opener.
func (r *Registry) Open(ctx context.Context, source string) (*Media, error) {
	open, err := r.lookup(source)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext, err := open(ctx, source)
	if err != nil {
		return nil, err
	}
	format := ext.Format()
	if format.SampleRate <= 0 || format.Channels <= 0 {
		ext.Close()
		return nil, fmt.Errorf("%s: invalid format %+v: %w", source, format, ErrUnsupportedFormat)
	}

	packetSize := r.packetFrames * format.Channels * 2
	return &Media{
		Source:     source,
		Format:     format,
		Extractor:  ext,
		Codec:      NewPCMCodec(format.Channels, r.inputQueue, packetSize),
		PacketSize: packetSize,
	}, nil
}

func (r *Registry) lookup(source string) (OpenFunc, error) {
	if scheme, _, ok := strings.Cut(source, ":"); ok && len(scheme) > 1 {
		if fn, ok := r.byScheme[strings.ToLower(scheme)]; ok {
			return fn, nil
		}
	}
	ext := strings.ToLower(filepath.Ext(filePath(source)))
	if fn, ok := r.byExt[ext]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("%s: %w", source, ErrUnsupportedFormat)
}

// fileOpener adapts a path-based opener, accepting plain paths and file:// URIs.
func fileOpener(open func(path string) (Extractor, error)) OpenFunc {
	return func(_ context.Context, source string) (Extractor, error) {
		return open(filePath(source))
	}
}

func filePath(source string) string {
	if !strings.HasPrefix(source, "file://") {
		return source
	}
	u, err := url.Parse(source)
	if err != nil {
		return source
	}
	return u.Path
}
