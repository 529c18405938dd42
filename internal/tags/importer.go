package tags

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/handiism/imagedata/internal/config"
	"github.com/handiism/imagedata/internal/dataset"
	ioutils "github.com/handiism/imagedata/internal/io"
	"github.com/handiism/imagedata/internal/model"
	"github.com/handiism/imagedata/internal/progress"
)

var (
	// ErrArchiveNotFound is returned when the sidecar archive does not exist.
	ErrArchiveNotFound = errors.New("archive folder not found")

	// ErrCSVNotFound is returned when the dataset CSV to update does not exist.
	ErrCSVNotFound = errors.New("CSV file not found")

	// ErrNoRecords is returned when the archive holds no usable sidecar.
	// The CSV is left untouched.
	ErrNoRecords = errors.New("no JSON metadata files found")

	// ErrNoDescribColumn is returned when the CSV has no describ column.
	ErrNoDescribColumn = errors.New("CSV has no " + model.ColumnDescrib + " column")
)

// Result summarises an importer run.
type Result struct {
	Records    int
	Rows       int
	Updated    int
	Unchanged  int
	NotFound   int
	NoBase     int
	CSVPath    string
	BackupPath string
}

// Importer copies sidecar tags into the describ column of the dataset CSV.
type Importer struct {
	settings   *config.Settings
	scanner    *Scanner
	onProgress progress.Func

	done  int32
	total int32
}

// NewImporter creates a new Importer.
func NewImporter(settings *config.Settings, onProgress progress.Func) *Importer {
	return &Importer{
		settings:   settings,
		scanner:    NewScanner(settings.UserFolderPrefix, settings.Locations, onProgress),
		onProgress: onProgress,
	}
}

// Run validates the inputs, indexes the archive, backs up the CSV and
// rewrites its describ column.
//
// The CSV is only written after the backup succeeded. When the archive
// yields no records Run returns ErrNoRecords and the CSV is not touched.
func (im *Importer) Run(ctx context.Context) (*Result, error) {
	// Scan, backup and write count as one unit each; rows are added once read.
	atomic.StoreInt32(&im.done, 0)
	atomic.StoreInt32(&im.total, 3)

	archivePath := im.settings.ArchivePath()
	csvPath := im.settings.TargetPath()
	result := &Result{CSVPath: csvPath}

	if !ioutils.Exists(archivePath) {
		return nil, fmt.Errorf("%w: %s", ErrArchiveNotFound, archivePath)
	}
	if !ioutils.Exists(csvPath) {
		return nil, fmt.Errorf("%w: %s", ErrCSVNotFound, csvPath)
	}

	im.onProgress.Emit(progress.LevelInfo, "Scanning JSON metadata files in %s", archivePath)
	index, err := im.scanner.Scan(ctx, archivePath)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", archivePath, err)
	}
	atomic.AddInt32(&im.done, 1)

	result.Records = index.Len()
	if result.Records == 0 {
		im.onProgress.Emit(progress.LevelWarning, "No JSON metadata files found. Exiting.")
		return result, ErrNoRecords
	}
	im.onProgress.Emit(progress.LevelInfo, "Found %d JSON metadata files", result.Records)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.BackupPath = ioutils.BackupPath(csvPath, im.settings.BackupSuffix)
	if err := ioutils.CopyFile(ctx, csvPath, result.BackupPath); err != nil {
		return nil, fmt.Errorf("backing up %s: %w", csvPath, err)
	}
	atomic.AddInt32(&im.done, 1)
	im.onProgress.Emit(progress.LevelInfo, "Created backup: %s", result.BackupPath)

	table, err := dataset.ReadFile(csvPath)
	if err != nil {
		return nil, err
	}
	if !table.Has(model.ColumnDescrib) {
		return nil, fmt.Errorf("%w: %s", ErrNoDescribColumn, csvPath)
	}
	atomic.AddInt32(&im.total, int32(table.Len()))

	for i := 0; i < table.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		im.applyRow(table, i, index, result)
		atomic.AddInt32(&im.done, 1)
	}
	result.Rows = table.Len()

	if err := table.WriteFile(ctx, csvPath); err != nil {
		return nil, fmt.Errorf("writing %s: %w", csvPath, err)
	}
	atomic.AddInt32(&im.done, 1)

	im.onProgress.Emit(progress.LevelSuccess,
		"Updated %d of %d rows in %s (%d not found)",
		result.Updated, result.Rows, csvPath, result.NotFound)
	return result, nil
}

// applyRow matches row i against the index and updates its describ field.
func (im *Importer) applyRow(table *dataset.Table, i int, index *Index, result *Result) {
	src := table.Get(i, model.ColumnSrc)
	audio := table.Get(i, model.ColumnAudio)

	base, ok := CandidateBase(src, audio)
	if !ok {
		im.onProgress.Emit(progress.LevelWarning, "Warning: Could not extract base filename from row %d (src=%q, audio=%q)", i+1, src, audio)
		result.NoBase++
		return
	}

	rec, ok := index.Lookup(base)
	if !ok {
		im.onProgress.Emit(progress.LevelWarning, "Warning: No JSON metadata found for %s", base)
		result.NotFound++
		return
	}

	old := table.Get(i, model.ColumnDescrib)
	if old == rec.Tags {
		im.onProgress.Emit(progress.LevelVerbose, "No change needed for %s", base)
		result.Unchanged++
		return
	}

	table.Set(i, model.ColumnDescrib, rec.Tags)
	im.onProgress.Emit(progress.LevelInfo, "Updated %s: %q -> %q", base, old, rec.Tags)
	result.Updated++
}

// GetProgress returns how many work units are finished out of the total.
func (im *Importer) GetProgress() (done, total int32) {
	return atomic.LoadInt32(&im.done), atomic.LoadInt32(&im.total)
}
