// Package capture turns user supplied image files into data URL payloads and
// back into raw bytes for transmission to the AI provider.
//
// No validation of image content, dimensions, or size happens here; any file
// a client submits as an image is passed through unchanged.
package capture

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrNoImage is returned when the payload is empty. Callers treat it as
	// "no image selected".
	ErrNoImage = errors.New("no image selected")

	// ErrInvalidDataURL is returned when the base64 payload cannot be decoded.
	ErrInvalidDataURL = errors.New("invalid image data")
)

const genericMIMEType = "application/octet-stream"

// EncodeDataURL reads r completely and returns a data URL of the form
// "data:<mime>;base64,<payload>". When mimeType is empty or generic the type
// is sniffed from the content.
func EncodeDataURL(r io.Reader, mimeType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return "", ErrNoImage
	}

	mimeType = baseMIMEType(mimeType)
	if mimeType == "" || mimeType == genericMIMEType {
		mimeType = baseMIMEType(mimetype.Detect(data).String())
	}

	var b strings.Builder
	b.Grow(len(mimeType) + base64.StdEncoding.EncodedLen(len(data)) + 13)
	b.WriteString("data:")
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String(), nil
}

// FromFileHeader encodes an uploaded multipart file as a data URL using the
// content type declared by the client.
func FromFileHeader(fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Size == 0 {
		return "", ErrNoImage
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded image: %w", err)
	}
	defer f.Close()

	return EncodeDataURL(f, fh.Header.Get("Content-Type"))
}

// StripPrefix returns the base64 payload that follows the first comma of a
// data URL. Input without a comma is returned unchanged.
func StripPrefix(dataURL string) string {
	if _, payload, found := strings.Cut(dataURL, ","); found && payload != "" {
		return payload
	}
	return dataURL
}

// Decode strips any data URL prefix and decodes the base64 payload.
func Decode(dataURL string) ([]byte, error) {
	payload := strings.TrimSpace(StripPrefix(dataURL))
	if payload == "" {
		return nil, ErrNoImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients strip padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
	}
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	return data, nil
}

// baseMIMEType drops parameters such as "; charset=binary".
func baseMIMEType(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
