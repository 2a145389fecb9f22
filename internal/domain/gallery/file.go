package gallery

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrMissingKey       = errors.New("file key is required")
	ErrProviderRejected = errors.New("provider rejected the operation")
)

// FileType is the viewer-facing media category of a hosted file.
type FileType string

const (
	TypeImage   FileType = "image"
	TypeVideo   FileType = "video"
	TypeAudio   FileType = "audio"
	TypeText    FileType = "text"
	TypeUnknown FileType = "unknown"
)

// FileRecord is the normalized, client-facing description of one hosted
// file. Key is the only stable identity; Name, Type, and Size may be
// inferred or defaulted when the provider does not supply them.
type FileRecord struct {
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Type       FileType  `json:"type"`
	Size       int64     `json:"size"`
	CustomID   string    `json:"customId,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".svg": true, ".heic": true,
}

var videoExts = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
	".webm": true, ".m4v": true, ".3gp": true,
}

var audioExts = map[string]bool{
	".mp3": true, ".wav": true, ".ogg": true, ".m4a": true,
	".aac": true, ".flac": true,
}

var textExts = map[string]bool{
	".txt": true, ".md": true, ".json": true, ".csv": true, ".log": true,
}

type classifyRule struct {
	match    func(mimeType, ext string) bool
	fileType FileType
}

// Rules are evaluated in order; first match wins. MIME prefixes take
// priority over extensions so a provider-supplied content type is never
// overridden by a misleading filename.
var classifyRules = []classifyRule{
	{func(m, _ string) bool { return strings.HasPrefix(m, "image/") }, TypeImage},
	{func(m, _ string) bool { return strings.HasPrefix(m, "video/") }, TypeVideo},
	{func(m, _ string) bool { return strings.HasPrefix(m, "audio/") }, TypeAudio},
	{func(m, _ string) bool { return strings.HasPrefix(m, "text/") }, TypeText},
	{func(_, e string) bool { return imageExts[e] }, TypeImage},
	{func(_, e string) bool { return videoExts[e] }, TypeVideo},
	{func(_, e string) bool { return audioExts[e] }, TypeAudio},
	{func(_, e string) bool { return textExts[e] }, TypeText},
}

// Classify derives the media category from a MIME type and a filename.
// It is a pure function of its inputs.
func Classify(mimeType, name string) FileType {
	ext := strings.ToLower(filepath.Ext(name))
	mimeType = strings.ToLower(mimeType)
	for _, rule := range classifyRules {
		if rule.match(mimeType, ext) {
			return rule.fileType
		}
	}
	return TypeUnknown
}
