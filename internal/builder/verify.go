package builder

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/handiism/imagedata/internal/audio"
	"github.com/handiism/imagedata/internal/model"
	"github.com/handiism/imagedata/internal/progress"
	"golang.org/x/sync/errgroup"
)

// imageFormats maps image extensions to the encoding image.DecodeConfig reports.
var imageFormats = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
}

type probeTarget struct {
	path string
	kind model.MediaKind
}

// probeOutcome is what one probe wants to report. Outcomes are emitted in
// row order after all probes finish.
type probeOutcome struct {
	problems []string
	details  []string
}

// Verify probes every image and recording referenced by rows.
//
// Unreadable files and files whose content does not match their extension
// are reported as warnings and counted; verification never changes rows.
// Probes run in parallel, bounded by Settings.MaxConcurrentProbes.
func (b *Builder) Verify(ctx context.Context, rows []model.Row) (int, error) {
	var targets []probeTarget
	for _, row := range rows {
		if row.Src != "" {
			targets = append(targets, probeTarget{path: row.Src, kind: model.KindImage})
		}
		if row.Audio != "" {
			targets = append(targets, probeTarget{path: row.Audio, kind: model.KindAudio})
		}
	}

	atomic.AddInt32(&b.total, int32(len(targets)))
	b.onProgress.Emit(progress.LevelInfo, "Verifying %d media files...", len(targets))

	outcomes := make([]probeOutcome, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, b.settings.MaxConcurrentProbes))

	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			defer atomic.AddInt32(&b.done, 1)
			if err := ctx.Err(); err != nil {
				return err
			}
			if target.kind == model.KindImage {
				outcomes[i] = b.probeImage(ctx, target)
			} else {
				outcomes[i] = b.probeAudio(ctx, target)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	problems := 0
	for _, outcome := range outcomes {
		for _, msg := range outcome.details {
			b.onProgress.Emit(progress.LevelVerbose, "%s", msg)
		}
		for _, msg := range outcome.problems {
			b.onProgress.Emit(progress.LevelWarning, "Warning: %s", msg)
			problems++
		}
	}

	if problems == 0 {
		b.onProgress.Emit(progress.LevelSuccess, "All %d media files look playable", len(targets))
	} else {
		b.onProgress.Emit(progress.LevelWarning, "%d media problems found", problems)
	}
	return problems, nil
}

func (b *Builder) probeImage(ctx context.Context, target probeTarget) probeOutcome {
	var out probeOutcome
	path := target.path

	info, err := b.images.Probe(ctx, b.settings.Resolve(path))
	if err != nil {
		out.problems = append(out.problems, fmt.Sprintf("unreadable %s %s: %v", target.kind, path, err))
		return out
	}

	ext := strings.ToLower(filepath.Ext(path))
	if want := imageFormats[ext]; want != "" && want != info.Format {
		out.problems = append(out.problems, fmt.Sprintf("%s holds %s data, expected %s", path, info.Format, want))
	}

	detail := fmt.Sprintf("%s: %s %dx%d", path, info.Format, info.Width, info.Height)
	if !info.Taken.IsZero() {
		detail += ", taken " + info.Taken.Format("2006-01-02 15:04")
	}
	out.details = append(out.details, detail)
	return out
}

func (b *Builder) probeAudio(ctx context.Context, target probeTarget) probeOutcome {
	var out probeOutcome
	path := target.path

	info, err := b.prober.Probe(ctx, b.settings.Resolve(path))
	if err != nil {
		out.problems = append(out.problems, fmt.Sprintf("unreadable %s %s: %v", target.kind, path, err))
		return out
	}

	want := audio.ExpectedContainer(filepath.Ext(path))
	switch {
	case info.Container == "":
		out.details = append(out.details, path+": unrecognised container")
	case want != "" && want != info.Container:
		out.problems = append(out.problems, fmt.Sprintf("%s holds %s data, expected %s", path, info.Container, want))
	default:
		detail := path + ": " + info.Container
		if info.Title != "" || info.Artist != "" {
			detail += " (" + strings.Trim(info.Artist+" - "+info.Title, " -") + ")"
		}
		out.details = append(out.details, detail)
	}
	return out
}
