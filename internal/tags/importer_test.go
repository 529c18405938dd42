package tags

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/handiism/imagedata/internal/config"
	"github.com/handiism/imagedata/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "src,bgc,audio,describ,title\r\n"

func newTestSettings(t *testing.T) *config.Settings {
	t.Helper()
	s := config.DefaultSettings()
	s.Root = t.TempDir()
	return s
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func writeSidecar(t *testing.T, s *config.Settings, user, location, name, content string) string {
	t.Helper()
	path := filepath.Join(s.ArchivePath(), "users", user, location, name)
	writeFile(t, path, content)
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_UpdatesMatchingRow(t *testing.T) {
	s := newTestSettings(t)
	writeSidecar(t, s, "user1", "greenpark", "foo.json", `{"tags": ["x", "y"]}`)
	original := header + "users/u/foo.jpg,users/u/foo.jpg,,old,u | foo\r\n"
	writeFile(t, s.TargetPath(), original)

	var rec progress.Recorder
	result, err := NewImporter(s, rec.Record).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Records)
	assert.Equal(t, 1, result.Rows)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, header+"users/u/foo.jpg,users/u/foo.jpg,,x; y,u | foo\r\n", readFile(t, s.TargetPath()))

	assert.Equal(t, filepath.Join(s.Root, "imagedata-shz_backup_before_json_update.csv"), result.BackupPath)
	assert.Equal(t, original, readFile(t, result.BackupPath))
	assert.Equal(t, 1, rec.Count(progress.LevelSuccess))
}

func TestRun_SecondRunChangesNothing(t *testing.T) {
	s := newTestSettings(t)
	writeSidecar(t, s, "user1", "greenpark", "foo.json", `{"tags": ["x", "y"]}`)
	writeSidecar(t, s, "user2", "sciencepark", "bar.json", `{"tags": ["z"]}`)
	writeFile(t, s.TargetPath(), header+
		"users/u/foo.jpg,users/u/foo.jpg,,,u | foo\r\n"+
		",,users/u/bar.webm,,u | bar\r\n")

	first, err := NewImporter(s, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Updated)
	afterFirst := readFile(t, s.TargetPath())

	second, err := NewImporter(s, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Updated)
	assert.Equal(t, 2, second.Unchanged)
	assert.Equal(t, afterFirst, readFile(t, s.TargetPath()))
}

func TestRun_MissingArchiveLeavesCSVAlone(t *testing.T) {
	s := newTestSettings(t)
	original := header + "users/u/foo.jpg,users/u/foo.jpg,,old,u | foo\r\n"
	writeFile(t, s.TargetPath(), original)
	past := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(s.TargetPath(), past, past))

	_, err := NewImporter(s, nil).Run(context.Background())
	require.ErrorIs(t, err, ErrArchiveNotFound)

	info, err := os.Stat(s.TargetPath())
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past))
	assert.Equal(t, original, readFile(t, s.TargetPath()))
	_, err = os.Stat(filepath.Join(s.Root, "imagedata-shz_backup_before_json_update.csv"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRun_MissingCSV(t *testing.T) {
	s := newTestSettings(t)
	writeSidecar(t, s, "user1", "greenpark", "foo.json", `{"tags": ["x"]}`)

	_, err := NewImporter(s, nil).Run(context.Background())
	assert.ErrorIs(t, err, ErrCSVNotFound)
}

func TestRun_NoRecordsLeavesCSVAlone(t *testing.T) {
	s := newTestSettings(t)
	writeSidecar(t, s, "user1", "greenpark", "broken.json", `{"tags": [`)
	writeSidecar(t, s, "user1", "greenpark", "empty.json", `{"tags": []}`)
	original := header + "users/u/broken.jpg,users/u/broken.jpg,,old,u | broken\r\n"
	writeFile(t, s.TargetPath(), original)

	var rec progress.Recorder
	result, err := NewImporter(s, rec.Record).Run(context.Background())
	require.ErrorIs(t, err, ErrNoRecords)
	assert.Zero(t, result.Records)
	assert.Empty(t, result.BackupPath)
	assert.Equal(t, original, readFile(t, s.TargetPath()))
	assert.Equal(t, 2, rec.Count(progress.LevelWarning))
}

func TestRun_MissingUsersFolder(t *testing.T) {
	s := newTestSettings(t)
	require.NoError(t, os.MkdirAll(s.ArchivePath(), 0755))
	writeFile(t, s.TargetPath(), header)

	var rec progress.Recorder
	_, err := NewImporter(s, rec.Record).Run(context.Background())
	require.ErrorIs(t, err, ErrNoRecords)
	assert.Equal(t, 1, rec.Count(progress.LevelError))
}

func TestRun_UnmatchedRows(t *testing.T) {
	s := newTestSettings(t)
	writeSidecar(t, s, "user1", "greenpark", "foo.json", `{"tags": ["x"]}`)
	writeSidecar(t, s, "user1", "greenpark", "bad.json", `not json`)
	writeFile(t, s.TargetPath(), header+
		"users/u/foo.jpg,users/u/foo.jpg,,,u | foo\r\n"+
		"users/u/bad.jpg,users/u/bad.jpg,,keep me,u | bad\r\n"+
		"users/u/pic.png,users/u/pic.png,users/u/pic.wav,as is,u | pic\r\n")

	var rec progress.Recorder
	result, err := NewImporter(s, rec.Record).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.NotFound)
	assert.Equal(t, 1, result.NoBase)
	// bad.json, the unmatched bad.jpg row and the pic row without a candidate.
	assert.Equal(t, 3, rec.Count(progress.LevelWarning))
	assert.Equal(t, header+
		"users/u/foo.jpg,users/u/foo.jpg,,x,u | foo\r\n"+
		"users/u/bad.jpg,users/u/bad.jpg,,keep me,u | bad\r\n"+
		"users/u/pic.png,users/u/pic.png,users/u/pic.wav,as is,u | pic\r\n",
		readFile(t, s.TargetPath()))
}

func TestRun_KeepsExtraColumns(t *testing.T) {
	s := newTestSettings(t)
	writeSidecar(t, s, "user1", "sciencepark", "foo.json", `{"tags": ["a", "b, c"]}`)
	writeFile(t, s.TargetPath(),
		"title,src,describ,audio,bgc,note\r\n"+
			"u | foo,users/u/foo.jpg,,,users/u/foo.jpg,\"quoted, note\"\r\n")

	_, err := NewImporter(s, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t,
		"title,src,describ,audio,bgc,note\r\n"+
			"u | foo,users/u/foo.jpg,\"a; b, c\",,users/u/foo.jpg,\"quoted, note\"\r\n",
		readFile(t, s.TargetPath()))
}

func TestRun_RejectsCSVWithoutDescrib(t *testing.T) {
	s := newTestSettings(t)
	writeSidecar(t, s, "user1", "greenpark", "foo.json", `{"tags": ["x"]}`)
	original := "src,title\r\nusers/u/foo.jpg,u | foo\r\n"
	writeFile(t, s.TargetPath(), original)

	_, err := NewImporter(s, nil).Run(context.Background())
	require.ErrorIs(t, err, ErrNoDescribColumn)
	assert.Equal(t, original, readFile(t, s.TargetPath()))
}

func TestRun_LaterSidecarWins(t *testing.T) {
	s := newTestSettings(t)
	first := writeSidecar(t, s, "user1", "greenpark", "foo.json", `{"tags": ["first"]}`)
	second := writeSidecar(t, s, "user2", "greenpark", "foo.json", `{"tags": ["second"]}`)
	writeSidecar(t, s, "guest", "greenpark", "foo.json", `{"tags": ["ignored"]}`)
	writeSidecar(t, s, "user3", "elsewhere", "foo.json", `{"tags": ["ignored"]}`)
	writeFile(t, s.TargetPath(), header+"users/u/foo.jpg,users/u/foo.jpg,,,u | foo\r\n")

	var rec progress.Recorder
	result, err := NewImporter(s, rec.Record).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Records)
	assert.Contains(t, readFile(t, s.TargetPath()), ",second,")

	var overrides []string
	for _, event := range rec.Events() {
		if event.Level == progress.LevelWarning {
			overrides = append(overrides, event.Message)
		}
	}
	require.Len(t, overrides, 1)
	assert.Contains(t, overrides[0], first)
	assert.Contains(t, overrides[0], second)
}

func TestRun_Progress(t *testing.T) {
	s := newTestSettings(t)
	writeSidecar(t, s, "user1", "greenpark", "foo.json", `{"tags": ["x"]}`)
	writeFile(t, s.TargetPath(), header+
		"users/u/foo.jpg,users/u/foo.jpg,,,u | foo\r\n"+
		"users/u/bar.jpg,users/u/bar.jpg,,,u | bar\r\n")

	im := NewImporter(s, nil)
	_, err := im.Run(context.Background())
	require.NoError(t, err)

	done, total := im.GetProgress()
	assert.Equal(t, int32(5), total)
	assert.Equal(t, total, done)
}

func TestRun_Cancelled(t *testing.T) {
	s := newTestSettings(t)
	writeSidecar(t, s, "user1", "greenpark", "foo.json", `{"tags": ["x"]}`)
	original := header + "users/u/foo.jpg,users/u/foo.jpg,,,u | foo\r\n"
	writeFile(t, s.TargetPath(), original)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewImporter(s, nil).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, original, readFile(t, s.TargetPath()))
}

func TestRun_CarriageReturnsAreStable(t *testing.T) {
	s := newTestSettings(t)
	writeSidecar(t, s, "user1", "greenpark", "foo.json", `{"tags": ["line1\r\nline2", "a\rb"]}`)
	writeFile(t, s.TargetPath(), "src,describ,note\r\n"+
		"users/u/foo.jpg,,\"p\rq\"\r\n"+
		"users/u/bar.jpg,keep,\"x\ry\"\r\n")

	first, err := NewImporter(s, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Updated)
	afterFirst := readFile(t, s.TargetPath())
	assert.Equal(t, "src,describ,note\r\n"+
		"users/u/foo.jpg,\"line1\nline2; a\rb\",\"p\rq\"\r\n"+
		"users/u/bar.jpg,keep,\"x\ry\"\r\n", afterFirst)

	second, err := NewImporter(s, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Updated)
	assert.Equal(t, 1, second.Unchanged)
	assert.Equal(t, afterFirst, readFile(t, s.TargetPath()))
}

func TestRun_BackupFailureLeavesCSVAlone(t *testing.T) {
	s := newTestSettings(t)
	writeSidecar(t, s, "user1", "greenpark", "foo.json", `{"tags": ["x"]}`)
	original := header + "users/u/foo.jpg,users/u/foo.jpg,,old,u | foo\r\n"
	writeFile(t, s.TargetPath(), original)
	past := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(s.TargetPath(), past, past))

	// A directory in the way makes the backup copy fail.
	require.NoError(t, os.Mkdir(filepath.Join(s.Root, "imagedata-shz_backup_before_json_update.csv"), 0755))

	_, err := NewImporter(s, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backing up")

	info, err := os.Stat(s.TargetPath())
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past))
	assert.Equal(t, original, readFile(t, s.TargetPath()))
}

func TestRun_UnreadableFoldersAreSkipped(t *testing.T) {
	s := newTestSettings(t)
	broken := filepath.Dir(writeSidecar(t, s, "user1", "greenpark", "lost.json", `{"tags": ["never"]}`))
	writeSidecar(t, s, "user1", "sciencepark", "foo.json", `{"tags": ["x"]}`)
	writeFile(t, s.TargetPath(), header+"users/u/foo.jpg,users/u/foo.jpg,,,u | foo\r\n")

	var rec progress.Recorder
	im := NewImporter(s, rec.Record)
	im.scanner.readDir = func(name string) ([]os.DirEntry, error) {
		if name == broken {
			return nil, os.ErrPermission
		}
		return os.ReadDir(name)
	}

	result, err := im.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Records)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, rec.Count(progress.LevelWarning))
}

func TestRun_UnreadableUsersFolder(t *testing.T) {
	s := newTestSettings(t)
	writeSidecar(t, s, "user1", "greenpark", "foo.json", `{"tags": ["x"]}`)
	original := header + "users/u/foo.jpg,users/u/foo.jpg,,,u | foo\r\n"
	writeFile(t, s.TargetPath(), original)

	var rec progress.Recorder
	im := NewImporter(s, rec.Record)
	im.scanner.readDir = func(string) ([]os.DirEntry, error) {
		return nil, os.ErrPermission
	}

	_, err := im.Run(context.Background())
	require.ErrorIs(t, err, ErrNoRecords)
	assert.Equal(t, 1, rec.Count(progress.LevelError))
	assert.Equal(t, original, readFile(t, s.TargetPath()))
}
