package model

import (
	"path/filepath"
	"strings"
)

// MediaKind classifies a file in a user directory by its extension.
type MediaKind int

const (
	// KindOther is any file the dataset does not use.
	KindOther MediaKind = iota

	// KindImage is a still image shown by the installation (.jpg, .jpeg, .png).
	KindImage

	// KindAudio is a recording played alongside an image (.wav, .mp3, .m4a, .webm, .mp4).
	KindAudio

	// KindText is a hand-written note providing the description (.txt).
	KindText
)

var (
	imageExts = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
	}

	audioExts = map[string]bool{
		".wav":  true,
		".mp3":  true,
		".m4a":  true,
		".webm": true,
		".mp4":  true,
	}
)

// String returns a short label for log messages.
func (k MediaKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindAudio:
		return "audio"
	case KindText:
		return "text"
	default:
		return "other"
	}
}

// ClassifyExt returns the kind for a file extension, including the dot.
// Matching is case-insensitive: ".JPG" is an image.
func ClassifyExt(ext string) MediaKind {
	ext = strings.ToLower(ext)
	switch {
	case imageExts[ext]:
		return KindImage
	case audioExts[ext]:
		return KindAudio
	case ext == ".txt":
		return KindText
	default:
		return KindOther
	}
}

// SplitName splits a file name into its basename and lowercased extension.
//
//	SplitName("Item-1.JPG") // "Item-1", ".jpg"
//	SplitName(".hidden")    // "", ".hidden"
func SplitName(name string) (base, ext string) {
	ext = filepath.Ext(name)
	base = strings.TrimSuffix(name, ext)
	return base, strings.ToLower(ext)
}

// Asset groups the files of one user that share a basename.
//
// An Asset is built while scanning a user directory and lives only long
// enough to be turned into a Row. At most one file is kept per kind; when
// several files of the same kind share the basename, the last one assigned
// wins.
//
// Example:
//
//	asset := NewAsset("Chao", "Item-1")
//	asset.Assign(KindImage, "users/Chao/Item-1.jpg")
//	asset.Assign(KindAudio, "users/Chao/Item-1.wav")
//	row := asset.ToRow("")
//	// row.Title == "Chao | Item-1"
type Asset struct {
	// User is the owner of the directory the files were found in.
	User string

	// Base is the shared file name without extension.
	Base string

	// ImagePath is the dataset path of the image, relative to the working directory.
	ImagePath string

	// AudioPath is the dataset path of the recording, relative to the working directory.
	AudioPath string

	// TextPath is the on-disk path of the description note. It is read but
	// never written to the dataset.
	TextPath string
}

// NewAsset creates an empty Asset for a user's basename.
func NewAsset(user, base string) *Asset {
	return &Asset{User: user, Base: base}
}

// Assign records path in the slot for kind. KindOther is ignored.
func (a *Asset) Assign(kind MediaKind, path string) {
	switch kind {
	case KindImage:
		a.ImagePath = path
	case KindAudio:
		a.AudioPath = path
	case KindText:
		a.TextPath = path
	}
}

// HasMedia reports whether the asset has an image or a recording.
// Assets with only a text note are not part of the dataset.
func (a *Asset) HasMedia() bool {
	return a.ImagePath != "" || a.AudioPath != ""
}

// HasText reports whether a description note was found.
func (a *Asset) HasText() bool {
	return a.TextPath != ""
}

// ToRow converts the asset into a dataset row with the given description.
// The background image always mirrors the image.
func (a *Asset) ToRow(describ string) Row {
	return Row{
		Src:     a.ImagePath,
		Bgc:     a.ImagePath,
		Audio:   a.AudioPath,
		Describ: describ,
		Title:   Title(a.User, a.Base),
	}
}
