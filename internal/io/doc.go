// Package ioutils provides file system and image inspection utilities.
//
// # File Operations
//
//	// Back up a CSV before rewriting it
//	backup := ioutils.BackupPath("imagedata-shz.csv", "_backup_before_json_update")
//	err := ioutils.CopyFile(ctx, "imagedata-shz.csv", backup)
//
//	// Replace a file without exposing a partial write
//	err = ioutils.WriteFileAtomic(ctx, "imagedata-shz.csv", func(w io.Writer) error { ... })
//
// # Text Decoding
//
// CSV files and notes saved by spreadsheet or text editors may start with a
// byte order mark or be UTF-16 encoded. NewTextReader and DecodeText turn
// them into plain UTF-8.
//
// # Image Inspection
//
// The ImageService reads image headers and EXIF data:
//
//	svc := ioutils.NewImageService()
//	info, err := svc.Probe(ctx, "users/Chao/Item-1.jpg")
//	fmt.Println(info.Format, info.Width, info.Height, info.Taken)
package ioutils
