package emotion

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"studypulse/internal/services"
)

// ErrInvalidImage marks payloads that are not a usable image.
var ErrInvalidImage = services.Mark(services.ErrValidation, "invalid image")

// Image is a decoded, validated snapshot.
type Image struct {
	Data     []byte
	MIMEType string
	Format   string
	Width    int
	Height   int
}

// Limits bounds accepted payloads. Zero values disable a check.
type Limits struct {
	MaxBytes     int
	MaxDimension int
}

var formatMIME = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"webp": "image/webp",
}

// DecodeImage accepts raw base64 or a data URL, decodes it and checks that the
// bytes are a supported image within limits.
func DecodeImage(payload string, limits Limits) (Image, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return Image{}, invalidImage("no image data provided", nil)
	}
	if idx := strings.Index(payload, "base64,"); idx >= 0 {
		payload = payload[idx+len("base64,"):]
	}
	payload = stripSpace(payload)

	if limits.MaxBytes > 0 && base64.StdEncoding.DecodedLen(len(payload)) > limits.MaxBytes+3 {
		return Image{}, invalidImage(fmt.Sprintf("image exceeds %d bytes", limits.MaxBytes), nil)
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return Image{}, invalidImage("image is not valid base64", err)
	}
	if limits.MaxBytes > 0 && len(data) > limits.MaxBytes {
		return Image{}, invalidImage(fmt.Sprintf("image exceeds %d bytes", limits.MaxBytes), nil)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, invalidImage("unsupported image format", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Image{}, invalidImage("image has no pixels", nil)
	}
	if limits.MaxDimension > 0 && (cfg.Width > limits.MaxDimension || cfg.Height > limits.MaxDimension) {
		return Image{}, invalidImage(fmt.Sprintf("image %dx%d exceeds %d pixels per side", cfg.Width, cfg.Height, limits.MaxDimension), nil)
	}

	return Image{
		Data:     data,
		MIMEType: formatMIME[format],
		Format:   format,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// DataURL renders the image as a data URL.
func (i Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// stripSpace removes whitespace, including the line breaks of wrapped base64.
func stripSpace(payload string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)
}

func decodeBase64(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); rawErr == nil {
		return raw, nil
	}
	return nil, err
}

func invalidImage(message string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidImage, message, err)
	}
	return fmt.Errorf("%w: %s", ErrInvalidImage, message)
}
