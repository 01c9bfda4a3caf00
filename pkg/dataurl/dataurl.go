// Package dataurl parses and validates the base64 data-URL strings used to
// embed post images directly in their documents.
package dataurl

import (
	"encoding/base64"
	"errors"
	"strings"
)

// MaxEncodedLen caps a single encoded image. Base64 inflates the payload by
// roughly a third, so 2MB of raw image data is about 2.7MB encoded.
const MaxEncodedLen = 27 * 1024 * 1024 / 10

const imagePrefix = "data:image/"

var (
	ErrNotImage  = errors.New("invalid image format, must be a base64 data URL")
	ErrTooLarge  = errors.New("image size too large, maximum 2MB per image")
	ErrMalformed = errors.New("malformed data URL")
)

// Validate checks that s is an embeddable image: a data URL with an image
// media type, within the size ceiling. It does not decode the payload.
func Validate(s string) error {
	if !strings.HasPrefix(s, imagePrefix) {
		return ErrNotImage
	}
	if len(s) > MaxEncodedLen {
		return ErrTooLarge
	}
	return nil
}

// Decode splits a stored data URL into its declared media type and raw bytes.
func Decode(s string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrMalformed
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrMalformed
	}
	mediaType, ok = strings.CutSuffix(meta, ";base64")
	if !ok || mediaType == "" {
		return "", nil, ErrMalformed
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrMalformed
	}
	return mediaType, data, nil
}
