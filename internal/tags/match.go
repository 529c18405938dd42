package tags

import (
	"path"
	"strings"
)

// CandidateBase derives the sidecar base filename for a dataset row.
//
// The image column is tried first: a src whose file name ends in ".jpg"
// gives that name without the suffix. Otherwise an audio file name ending
// in ".webm" or ".mp4" is used. Suffix checks are case-sensitive, and both
// "/" and "\" count as directory separators.
//
//	CandidateBase("users/u/user1_1.jpg", "")        // "user1_1", true
//	CandidateBase("users/u/a.png", "users/u/a.mp4") // "a", true
//	CandidateBase("", "users/u/a.wav")              // "", false
func CandidateBase(src, audio string) (string, bool) {
	if name := fileName(src); name != "" {
		if base, ok := strings.CutSuffix(name, ".jpg"); ok && base != "" {
			return base, true
		}
	}

	if name := fileName(audio); name != "" {
		for _, ext := range []string{".webm", ".mp4"} {
			if base, ok := strings.CutSuffix(name, ext); ok && base != "" {
				return base, true
			}
		}
	}

	return "", false
}

func fileName(p string) string {
	if p == "" {
		return ""
	}
	return path.Base(strings.ReplaceAll(p, `\`, "/"))
}
