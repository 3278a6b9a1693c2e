// Package pixeldiff compares two screenshots pixel by pixel and groups the
// differing pixels into rectangular regions.
package pixeldiff

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is wrapped by DecodeError when the input has no bytes.
var ErrEmptyImage = errors.New("empty image data")

// DecodeError reports an input that could not be decoded into pixels. It is
// always fatal for the comparison that received it.
type DecodeError struct {
	Input string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Input, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode decodes PNG, JPEG, BMP or WebP bytes.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// DecodeString decodes a base64 image, optionally prefixed with a data URI
// scheme such as "data:image/png;base64,".
func DecodeString(s string) (image.Image, error) {
	data, err := DecodeBase64(s)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// DecodeBase64 strips an optional data URI prefix and returns the raw bytes.
func DecodeBase64(s string) ([]byte, error) {
	s = StripDataURI(strings.TrimSpace(s))
	if s == "" {
		return nil, ErrEmptyImage
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
			return raw, nil
		}
		return nil, fmt.Errorf("base64: %w", err)
	}
	return data, nil
}

// StripDataURI removes a "data:<mime>;base64," prefix if present.
func StripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return s
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeDataURI encodes img as a PNG data URI.
func EncodeDataURI(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
