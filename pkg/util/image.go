package util

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidImageData = errors.New("invalid image data")

// imageExtensions maps accepted data URI media types to file extensions
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DecodeImageDataURI decodes a "data:image/...;base64,..." payload as sent by
// web clients for avatar and recipe image uploads. Returns the raw bytes, the
// media type and a matching file extension.
func DecodeImageDataURI(dataURI string) ([]byte, string, string, error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return nil, "", "", ErrInvalidImageData
	}

	meta, payload, found := strings.Cut(dataURI[len("data:"):], ",")
	if !found {
		return nil, "", "", ErrInvalidImageData
	}

	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, "", "", ErrInvalidImageData
	}

	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, "", "", ErrInvalidImageData
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, "", "", ErrInvalidImageData
	}

	return data, contentType, ext, nil
}
