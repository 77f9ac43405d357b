// Package media classifies payload media types into the preview categories
// display renderers know how to embed.
package media

import "strings"

// Kind is the preview category of a media type.
type Kind int

const (
	KindUnknown Kind = iota
	KindAudio
	KindImage
	KindVideo
)

var compatible = map[string]Kind{
	"audio/mpeg": KindAudio,
	"audio/ogg":  KindAudio,
	"audio/wav":  KindAudio,
	"image/png":  KindImage,
	"image/jpeg": KindImage,
	"video/mp4":  KindVideo,
}

// Classify maps a media type onto a preview kind. Parameters after a
// semicolon are ignored; unrecognized types return KindUnknown so callers can
// fall back to a generic rendering.
func Classify(mediaType string) Kind {
	base := strings.TrimSpace(mediaType)
	if idx := strings.IndexByte(base, ';'); idx >= 0 {
		base = base[:idx]
	}
	return compatible[strings.ToLower(strings.TrimSpace(base))]
}

// Extension returns a file extension hint for the known preview types.
func Extension(mediaType string) string {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "audio/mpeg":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	case "audio/wav":
		return ".wav"
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "video/mp4":
		return ".mp4"
	default:
		return ""
	}
}
