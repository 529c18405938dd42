// Package tags imports keyword tags from JSON sidecar files into the
// describ column of an existing dataset CSV.
//
// Sidecars live in an archive tree, one folder per user and location:
//
//	archive/users/user1/greenpark/user1_1.json   {"tags": ["tree", "bench"]}
//
// Each sidecar is keyed by its file name without ".json". A CSV row is
// matched through the file name of its image (".jpg") or, failing that,
// its audio (".webm", ".mp4"). Matched rows get the tags joined with "; ";
// every other row is written back unchanged.
//
// The CSV is backed up before it is rewritten, and the rewrite goes through
// a temporary file so an interrupted run never leaves a truncated dataset.
package tags
