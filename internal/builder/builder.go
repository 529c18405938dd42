package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"unicode/utf8"

	"github.com/handiism/imagedata/internal/audio"
	"github.com/handiism/imagedata/internal/config"
	"github.com/handiism/imagedata/internal/dataset"
	ioutils "github.com/handiism/imagedata/internal/io"
	"github.com/handiism/imagedata/internal/model"
	"github.com/handiism/imagedata/internal/progress"
)

// Result summarises a builder run.
type Result struct {
	Rows         []model.Row
	OutputPath   string
	UsersScanned int
	UsersMissing int
	// Problems counts media files flagged by verification.
	Problems int
}

// Builder produces the dataset CSV from the per-user media directories.
type Builder struct {
	settings   *config.Settings
	images     *ioutils.ImageService
	prober     *audio.Prober
	onProgress progress.Func

	done  int32
	total int32
}

// NewBuilder creates a new Builder.
func NewBuilder(settings *config.Settings, onProgress progress.Func) *Builder {
	return &Builder{
		settings:   settings,
		images:     ioutils.NewImageService(),
		prober:     audio.NewProber(),
		onProgress: onProgress,
	}
}

// Run scans every configured user, optionally verifies the media, and
// overwrites the output CSV with the collected rows.
//
// Missing user directories are reported and skipped. The CSV is written
// even when no rows were found; only a failure to write it is an error.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	atomic.StoreInt32(&b.done, 0)
	atomic.StoreInt32(&b.total, int32(len(b.settings.Users)))

	result := &Result{OutputPath: b.settings.OutputPath()}

	for _, user := range b.settings.Users {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		assets, err := b.ScanUser(user)
		atomic.AddInt32(&b.done, 1)
		if err != nil {
			b.onProgress.Emit(progress.LevelWarning, "Warning: %v", err)
			result.UsersMissing++
			continue
		}
		result.UsersScanned++

		before := len(result.Rows)
		for _, asset := range assets {
			if !asset.HasMedia() {
				b.onProgress.Emit(progress.LevelVerbose, "Skipping %s/%s: no image or audio", user, asset.Base)
				continue
			}
			describ := ""
			if asset.HasText() {
				describ = b.readDescription(asset.TextPath)
			}
			result.Rows = append(result.Rows, asset.ToRow(describ))
		}
		b.onProgress.Emit(progress.LevelInfo, "%s: %d rows", user, len(result.Rows)-before)
	}

	if b.settings.VerifyMedia {
		problems, err := b.Verify(ctx, result.Rows)
		if err != nil {
			return nil, err
		}
		result.Problems = problems
	}

	if err := ioutils.EnsureDir(filepath.Dir(result.OutputPath)); err != nil {
		return nil, fmt.Errorf("creating output folder: %w", err)
	}
	if err := dataset.FromRows(result.Rows).WriteFile(ctx, result.OutputPath); err != nil {
		return nil, fmt.Errorf("writing %s: %w", result.OutputPath, err)
	}

	b.onProgress.Emit(progress.LevelSuccess, "Wrote %d rows to %s", len(result.Rows), result.OutputPath)
	return result, nil
}

// ScanUser groups the files of one user directory by basename.
//
// Hidden files and anything that is not a regular file (after following
// symlinks) are skipped, as are extensions that are neither image, audio
// nor text. Assets are returned sorted by basename. Entries are visited in
// file name order, so when two files fill the same slot (Item.jpg and
// Item.png) the later name wins.
func (b *Builder) ScanUser(user string) ([]*model.Asset, error) {
	userDir := filepath.Join(b.settings.UsersPath(), user)
	if !ioutils.IsDir(userDir) {
		return nil, fmt.Errorf("missing user directory %s", userDir)
	}

	entries, err := os.ReadDir(userDir)
	if err != nil {
		return nil, fmt.Errorf("reading user directory %s: %w", userDir, err)
	}

	byBase := make(map[string]*model.Asset)
	for _, entry := range entries {
		name := entry.Name()
		if ioutils.IsHidden(name) {
			continue
		}

		diskPath := filepath.Join(userDir, name)
		info, err := os.Stat(diskPath)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		base, ext := model.SplitName(name)
		kind := model.ClassifyExt(ext)
		if kind == model.KindOther {
			continue
		}

		asset, ok := byBase[base]
		if !ok {
			asset = model.NewAsset(user, base)
			byBase[base] = asset
		}

		if kind == model.KindText {
			asset.Assign(kind, diskPath)
		} else {
			asset.Assign(kind, filepath.Join(b.settings.MediaPrefix, user, name))
		}
	}

	assets := make([]*model.Asset, 0, len(byBase))
	for _, asset := range byBase {
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Base < assets[j].Base })

	return assets, nil
}

// GetProgress returns how many work units are finished out of the total.
// Users count as one unit each; verification adds one unit per media file.
func (b *Builder) GetProgress() (done, total int32) {
	return atomic.LoadInt32(&b.done), atomic.LoadInt32(&b.total)
}

// readDescription returns the normalised note at path, or "" when the note
// cannot be read or is not valid UTF-8.
func (b *Builder) readDescription(path string) string {
	describ, err := ReadDescription(path)
	if err != nil {
		b.onProgress.Emit(progress.LevelWarning, "Warning: ignoring description %s: %v", path, err)
		return ""
	}
	return describ
}

// ReadDescription reads a text note and normalises it into clauses.
func ReadDescription(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if data, err = ioutils.DecodeText(data); err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("not valid UTF-8")
	}
	return model.NormalizeDescription(string(data)), nil
}
