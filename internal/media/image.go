package media

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var ErrInvalidImage = errors.New("invalid image data")

// Image is one captured photo held in memory.
type Image struct {
	Data        []byte
	ContentType string
}

// FromBytes sniffs the content type when the caller does not know it.
func FromBytes(data []byte, contentType string) Image {
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return Image{Data: data, ContentType: contentType}
}

// Decode accepts either a data URL or bare base64 (assumed JPEG, as the
// mobile client sends).
func Decode(s string) (Image, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Image{}, ErrInvalidImage
	}
	if strings.HasPrefix(s, "data:") {
		return ParseDataURL(s)
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Image{}, ErrInvalidImage
	}
	return Image{Data: data, ContentType: "image/jpeg"}, nil
}

// ParseDataURL decodes "data:<mime>;base64,<payload>".
func ParseDataURL(s string) (Image, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return Image{}, ErrInvalidImage
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, ErrInvalidImage
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return Image{Data: data, ContentType: contentType}, nil
}

// DataURL encodes the image the way the vision endpoint expects it.
func (i Image) DataURL() string {
	contentType := i.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Format returns the short subtype, e.g. "jpeg" or "png".
func (i Image) Format() string {
	_, sub, ok := strings.Cut(i.ContentType, "/")
	if !ok || sub == "" {
		return "jpeg"
	}
	return sub
}

// Extension is the file suffix used for stored objects.
func (i Image) Extension() string {
	f := i.Format()
	if f == "jpeg" {
		return ".jpg"
	}
	return "." + f
}
