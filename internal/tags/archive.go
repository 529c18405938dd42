package tags

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/imagedata/internal/io"
	"github.com/handiism/imagedata/internal/model"
	"github.com/handiism/imagedata/internal/progress"
)

const sidecarExt = ".json"

// Index maps base filenames to the tags found for them.
type Index struct {
	records map[string]model.TagRecord
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{records: make(map[string]model.TagRecord)}
}

// Add stores rec under rec.Base. A record already stored under the same
// base is replaced and returned.
func (ix *Index) Add(rec model.TagRecord) (replaced model.TagRecord, ok bool) {
	replaced, ok = ix.records[rec.Base]
	ix.records[rec.Base] = rec
	return replaced, ok
}

// Lookup returns the record stored for base.
func (ix *Index) Lookup(base string) (model.TagRecord, bool) {
	rec, ok := ix.records[base]
	return rec, ok
}

// Len returns the number of distinct base filenames.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Scanner walks a sidecar archive laid out as
// <archive>/users/<user folder>/<location>/<name>.json.
//
// Only directories whose name starts with the user folder prefix are
// visited, and only the configured locations inside them. Directory
// listings are read in file name order, so when two sidecars share a base
// filename the one found later wins; the replacement is reported.
//
// Example usage:
//
//	scanner := NewScanner("user", []string{"greenpark", "sciencepark"}, onProgress)
//	index, err := scanner.Scan(ctx, "archive")
//	rec, ok := index.Lookup("user1_1")
type Scanner struct {
	userPrefix string
	locations  []string
	onProgress progress.Func

	readDir func(name string) ([]os.DirEntry, error)
}

// NewScanner creates a new Scanner.
func NewScanner(userPrefix string, locations []string, onProgress progress.Func) *Scanner {
	return &Scanner{
		userPrefix: userPrefix,
		locations:  locations,
		onProgress: onProgress,
		readDir:    os.ReadDir,
	}
}

// Scan builds an Index from every valid sidecar under archiveDir.
//
// Sidecars and location folders that cannot be read are reported and
// skipped. A missing or unreadable users folder is reported as an error
// event and yields an empty Index. Only context cancellation returns an
// error.
func (s *Scanner) Scan(ctx context.Context, archiveDir string) (*Index, error) {
	index := NewIndex()

	usersPath := filepath.Join(archiveDir, "users")
	if !ioutils.IsDir(usersPath) {
		s.onProgress.Emit(progress.LevelError, "Error: Users folder not found at %s", usersPath)
		return index, nil
	}

	userDirs, err := s.readDir(usersPath)
	if err != nil {
		s.onProgress.Emit(progress.LevelError, "Error: cannot read users folder %s: %v", usersPath, err)
		return index, nil
	}

	for _, userDir := range userDirs {
		user := userDir.Name()
		userPath := filepath.Join(usersPath, user)
		if !strings.HasPrefix(user, s.userPrefix) || !ioutils.IsDir(userPath) {
			continue
		}

		for _, location := range s.locations {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			locationPath := filepath.Join(userPath, location)
			if !ioutils.IsDir(locationPath) {
				continue
			}
			s.scanLocation(index, user, location, locationPath)
		}
	}

	return index, nil
}

func (s *Scanner) scanLocation(index *Index, user, location, dir string) {
	entries, err := s.readDir(dir)
	if err != nil {
		s.onProgress.Emit(progress.LevelWarning, "Warning: skipping folder %s: %v", dir, err)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if ioutils.IsHidden(name) || !strings.HasSuffix(name, sidecarExt) {
			continue
		}

		path := filepath.Join(dir, name)
		tags, err := ReadSidecar(path)
		if err != nil {
			s.onProgress.Emit(progress.LevelWarning, "Warning: skipping %s: %v", path, err)
			continue
		}
		if tags == "" {
			s.onProgress.Emit(progress.LevelVerbose, "Skipping %s: tags list is empty", path)
			continue
		}

		rec := model.TagRecord{
			Base:     strings.TrimSuffix(name, sidecarExt),
			Tags:     tags,
			User:     user,
			Location: location,
			Path:     path,
		}
		if prev, replaced := index.Add(rec); replaced {
			s.onProgress.Emit(progress.LevelWarning, "Warning: %s overrides %s for %s", rec.Path, prev.Path, rec.Base)
		}
		s.onProgress.Emit(progress.LevelVerbose, "Found JSON: %s -> %s", rec.Base, rec.Tags)
	}
}
