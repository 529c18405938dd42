package model

// TagRecord holds the tags found in one JSON sidecar.
//
// Records are keyed by Base, the sidecar's file name without ".json".
// User and Location say where the sidecar was found; they are reported
// but play no part in matching rows.
type TagRecord struct {
	Base     string
	Tags     string
	User     string
	Location string
	Path     string
}
