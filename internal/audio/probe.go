package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
)

// ErrEmptyFile is returned when an audio file has no content.
var ErrEmptyFile = errors.New("audio file is empty")

// Info describes what a probe learned about an audio file.
type Info struct {
	// Container is the detected container ("mp3", "wav", "webm", "mp4", "ogg")
	// or "" when the header is not recognised.
	Container string

	// Size is the file size in bytes.
	Size int64

	// Title and Artist come from the ID3v2 tag of MP3 files, if present.
	Title  string
	Artist string
}

// Prober inspects recordings referenced by the dataset.
//
// Prober never modifies a file. It checks that the file is readable and
// non-empty, sniffs the container from the first bytes, and for MP3 files
// reads the ID3v2 tag.
//
// Example:
//
//	prober := NewProber()
//	info, err := prober.Probe(ctx, "users/Chao/Item-1.mp3")
//	if err != nil {
//	    log.Printf("unplayable recording: %v", err)
//	}
type Prober struct{}

// NewProber creates a new Prober.
func NewProber() *Prober {
	return &Prober{}
}

// Probe inspects the audio file at path.
//
// Returns an error if:
//   - The file cannot be opened or is empty
//   - The file has an .mp3 extension and its ID3v2 tag cannot be parsed
func (p *Prober) Probe(ctx context.Context, path string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return Info{}, err
	}
	if stat.Size() == 0 {
		return Info{}, ErrEmptyFile
	}

	header := make([]byte, 12)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Info{}, err
	}

	info := Info{
		Container: SniffContainer(header[:n]),
		Size:      stat.Size(),
	}

	if strings.ToLower(filepath.Ext(path)) == ".mp3" {
		if err := p.readID3(path, &info); err != nil {
			return info, err
		}
	}

	return info, nil
}

// readID3 fills Title and Artist from the file's ID3v2 tag. Files without
// a tag parse to an empty tag and leave info unchanged.
func (p *Prober) readID3(path string, info *Info) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("reading ID3 tag: %w", err)
	}
	defer tag.Close()

	info.Title = tag.Title()
	info.Artist = tag.Artist()
	return nil
}

// SniffContainer identifies an audio container from its leading bytes.
//
// Recognised signatures:
//   - "ID3" or an MPEG frame sync → "mp3"
//   - "RIFF....WAVE" → "wav"
//   - EBML magic 1A 45 DF A3 → "webm"
//   - "....ftyp" → "mp4" (also covers .m4a)
//   - "OggS" → "ogg"
func SniffContainer(header []byte) string {
	switch {
	case bytes.HasPrefix(header, []byte("ID3")):
		return "mp3"
	case len(header) >= 12 && bytes.HasPrefix(header, []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return "wav"
	case bytes.HasPrefix(header, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return "webm"
	case len(header) >= 8 && bytes.Equal(header[4:8], []byte("ftyp")):
		return "mp4"
	case bytes.HasPrefix(header, []byte("OggS")):
		return "ogg"
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		return "mp3"
	default:
		return ""
	}
}

// ExpectedContainer returns the container an extension should hold, or ""
// for extensions with no fixed container.
func ExpectedContainer(ext string) string {
	switch strings.ToLower(ext) {
	case ".mp3":
		return "mp3"
	case ".wav":
		return "wav"
	case ".webm":
		return "webm"
	case ".mp4", ".m4a":
		return "mp4"
	default:
		return ""
	}
}
