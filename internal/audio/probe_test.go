package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniffContainer(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   string
	}{
		{"id3", []byte("ID3\x04\x00\x00\x00\x00\x00\x00"), "mp3"},
		{"mpeg frame", []byte{0xFF, 0xFB, 0x90, 0x00}, "mp3"},
		{"wav", []byte("RIFF\x24\x00\x00\x00WAVE"), "wav"},
		{"riff but not wave", []byte("RIFF\x24\x00\x00\x00AVI "), ""},
		{"webm", []byte{0x1A, 0x45, 0xDF, 0xA3, 0x01}, "webm"},
		{"mp4", []byte("\x00\x00\x00\x18ftypmp42"), "mp4"},
		{"ogg", []byte("OggS\x00\x02"), "ogg"},
		{"unknown", []byte("hello"), ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SniffContainer(tt.header))
		})
	}
}

func TestExpectedContainer(t *testing.T) {
	assert.Equal(t, "mp4", ExpectedContainer(".M4A"))
	assert.Equal(t, "webm", ExpectedContainer(".webm"))
	assert.Equal(t, "", ExpectedContainer(".flac"))
}

func TestProber_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silent.wav")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := NewProber().Probe(context.Background(), path)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestProber_MissingFile(t *testing.T) {
	_, err := NewProber().Probe(context.Background(), filepath.Join(t.TempDir(), "nope.wav"))
	assert.Error(t, err)
}

func TestProber_WAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF\x24\x00\x00\x00WAVEfmt "), 0644))

	info, err := NewProber().Probe(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "wav", info.Container)
	assert.Equal(t, int64(16), info.Size)
}

func TestProber_MP3WithTag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp3")

	tag := id3v2.NewEmptyTag()
	tag.SetTitle("Canal at dusk")
	tag.SetArtist("Chao")
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = tag.WriteTo(f)
	require.NoError(t, err)
	_, err = f.Write([]byte{0xFF, 0xFB, 0x90, 0x00})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	info, err := NewProber().Probe(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "mp3", info.Container)
	assert.Equal(t, "Canal at dusk", info.Title)
	assert.Equal(t, "Chao", info.Artist)
}
