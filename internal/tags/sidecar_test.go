package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSidecar(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"two tags", `{"tags": ["x", "y"]}`, "x; y", nil},
		{"other keys ignored", `{"id": 7, "tags": ["tree"], "place": "canal"}`, "tree", nil},
		{"empty list", `{"tags": []}`, "", nil},
		{"tags not a list", `{"tags": "x, y"}`, "", ErrNoTags},
		{"tags null", `{"tags": null}`, "", ErrNoTags},
		{"no tags key", `{"labels": ["x"]}`, "", ErrNoTags},
		{"top level list", `["x", "y"]`, "", ErrNoTags},
		{"number in list", `{"tags": ["x", 3]}`, "", ErrBadTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSidecar([]byte(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSidecar_InvalidJSON(t *testing.T) {
	_, err := ParseSidecar([]byte(`{"tags": [`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoTags)
}

func TestCandidateBase(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		audio  string
		want   string
		wantOK bool
	}{
		{"jpg src", "users/u/user1_1.jpg", "", "user1_1", true},
		{"jpg wins over audio", "users/u/a.jpg", "users/u/b.webm", "a", true},
		{"png falls back to mp4", "users/u/a.png", "users/u/a.mp4", "a", true},
		{"webm audio", "", "users/u/clip.webm", "clip", true},
		{"windows separators", `users\u\pic.jpg`, "", "pic", true},
		{"upper case suffix", "users/u/pic.JPG", "", "", false},
		{"wav audio", "", "users/u/a.wav", "", false},
		{"bare suffix", "users/u/.jpg", "", "", false},
		{"empty row", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CandidateBase(tt.src, tt.audio)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
