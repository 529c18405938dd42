// Package audio inspects the recordings referenced by the dataset.
//
// # Probing
//
//	prober := audio.NewProber()
//	info, err := prober.Probe(ctx, "users/Chao/Item-1.mp3")
//
// The prober supports:
//   - Readability and empty-file checks for every audio extension
//   - Container sniffing (MP3, WAV, WebM, MP4/M4A, Ogg)
//   - ID3v2 title and artist for MP3 files
//
// Compare Info.Container with ExpectedContainer(ext) to find recordings
// saved under the wrong extension, which browsers do for MediaRecorder output.
package audio
