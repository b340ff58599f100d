package capture

// VideoMimeTypes lists video container types in descending preference
var VideoMimeTypes = []string{
	"video/webm;codecs=vp9,opus",
	"video/webm;codecs=vp8,opus",
	"video/webm",
	"video/mp4",
}

// AudioMimeTypes lists audio-only container types in descending preference
var AudioMimeTypes = []string{
	"audio/webm;codecs=opus",
	"audio/webm",
	"audio/ogg;codecs=opus",
	"audio/mp4",
}

// SelectMimeType returns the first candidate the backend supports, or "" if none is
func SelectMimeType(backend Backend, candidates []string) string {
	if backend == nil {
		return ""
	}
	for _, mimeType := range candidates {
		if backend.IsTypeSupported(mimeType) {
			return mimeType
		}
	}
	return ""
}
