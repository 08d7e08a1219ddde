package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrEmptyFrame   = errors.New("empty frame data")
	ErrInvalidFrame = errors.New("frame is not valid base64 image data")
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	DecodeFrame(data string) ([]byte, image.Image, error)
	CropJPEG(img image.Image, r image.Rectangle, quality int) ([]byte, error)
}

const (
	MaxFrameSize = 5 * 1024 * 1024
	MaxFrameSide = 4096

	frameQuality = 90
)

type utils struct {
	maxFrameSize int
	maxFrameSide int
}

func New() IUtils {
	return &utils{
		maxFrameSize: MaxFrameSize,
		maxFrameSide: MaxFrameSide,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// DecodeFrame accepts either a data URL ("data:image/jpeg;base64,...") or bare
// base64 and returns JPEG bytes together with the decoded image. Frames in
// other formats are re-encoded as JPEG.
func (u *utils) DecodeFrame(data string) ([]byte, image.Image, error) {
	data = strings.TrimSpace(data)
	if i := strings.Index(data, ","); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+1:]
	}
	if data == "" {
		return nil, nil, ErrEmptyFrame
	}

	if base64.StdEncoding.DecodedLen(len(data)) > u.maxFrameSize {
		return nil, nil, fmt.Errorf("%w: frame size exceeds %d bytes", ErrInvalidFrame, u.maxFrameSize)
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, nil, ErrInvalidFrame
	}

	// Header only, so oversized dimensions are rejected before allocating pixels.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, ErrInvalidFrame
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > u.maxFrameSide || cfg.Height > u.maxFrameSide {
		return nil, nil, fmt.Errorf("%w: %dx%d exceeds %d pixels per side", ErrInvalidFrame, cfg.Width, cfg.Height, u.maxFrameSide)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, ErrInvalidFrame
	}

	if format != "jpeg" {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: frameQuality}); err != nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrInvalidFrame, err.Error())
		}
		raw = buf.Bytes()
	}

	return raw, img, nil
}

// CropJPEG re-encodes the part of img inside r as JPEG.
func (u *utils) CropJPEG(img image.Image, r image.Rectangle, quality int) ([]byte, error) {
	r = r.Add(img.Bounds().Min).Intersect(img.Bounds())
	if r.Empty() {
		return nil, errors.New("crop region is outside the frame")
	}

	cropped := img
	if sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		cropped = sub.SubImage(r)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, cropped, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
