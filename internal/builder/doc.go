// Package builder produces the dataset CSV from per-user media directories.
//
// # Builder
//
// The Builder walks users/<user>/ for every configured user:
//
//  1. Group files by basename (Item-1.jpg, Item-1.wav, Item-1.txt)
//  2. Classify each file as image, audio or text by extension
//  3. Read and normalise the text note into a description
//  4. Emit one row per basename that has an image or a recording
//  5. Optionally verify every referenced media file
//  6. Overwrite the output CSV
//
// # Basic Usage
//
//	b := builder.NewBuilder(settings, func(event progress.Event) {
//	    fmt.Println(event.Message)
//	})
//	result, err := b.Run(ctx)
//
// Missing user directories are reported as warnings and skipped. The CSV is
// always written, even with zero rows.
package builder
