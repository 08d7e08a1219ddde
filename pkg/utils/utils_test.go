package utils

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 90, B: 60, A: 255})
		}
	}
	return img
}

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New()
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	id, err := u.NewULIDFromTimestamp(ts)
	require.NoError(t, err)

	parsed, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(ts), parsed.Time())
}

func TestDecodeFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(32, 24), nil))
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	u := New()

	raw, img, err := u.DecodeFrame("data:image/jpeg;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), raw)
	assert.Equal(t, image.Rect(0, 0, 32, 24), img.Bounds())

	_, img, err = u.DecodeFrame("  " + encoded + "\n")
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
}

func TestDecodeFramePNGIsReencodedAsJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(8, 8)))

	raw, img, err := New().DecodeFrame("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dy())

	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

// pngWithDeclaredSize returns a tiny PNG whose header claims w x h pixels.
func pngWithDeclaredSize(t *testing.T, w, h uint32) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	data := buf.Bytes()

	// 8 byte signature, then the IHDR length, type and data.
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestDecodeFrameRejectsOversizedDimensions(t *testing.T) {
	frame := base64.StdEncoding.EncodeToString(pngWithDeclaredSize(t, 16000, 16000))

	_, img, err := New().DecodeFrame(frame)
	require.ErrorIs(t, err, ErrInvalidFrame)
	assert.Nil(t, img)
	assert.Contains(t, err.Error(), "16000x16000")

	_, _, err = New().DecodeFrame(base64.StdEncoding.EncodeToString(pngWithDeclaredSize(t, 10, MaxFrameSide+1)))
	assert.ErrorIs(t, err, ErrInvalidFrame)
}

func TestDecodeFrameErrors(t *testing.T) {
	u := New()

	_, _, err := u.DecodeFrame("")
	assert.ErrorIs(t, err, ErrEmptyFrame)

	_, _, err = u.DecodeFrame("data:image/jpeg;base64,")
	assert.ErrorIs(t, err, ErrEmptyFrame)

	_, _, err = u.DecodeFrame("not base64 !!")
	assert.ErrorIs(t, err, ErrInvalidFrame)

	_, _, err = u.DecodeFrame(base64.StdEncoding.EncodeToString([]byte("plain text")))
	assert.ErrorIs(t, err, ErrInvalidFrame)

	small := &utils{maxFrameSize: 4, maxFrameSide: MaxFrameSide}
	_, _, err = small.DecodeFrame(base64.StdEncoding.EncodeToString([]byte("0123456789")))
	assert.ErrorIs(t, err, ErrInvalidFrame)
}

func TestCropJPEG(t *testing.T) {
	u := New()
	img := solid(100, 80)

	out, err := u.CropJPEG(img, image.Rect(10, 10, 40, 30), 85)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 30, decoded.Bounds().Dx())
	assert.Equal(t, 20, decoded.Bounds().Dy())

	out, err = u.CropJPEG(img, image.Rect(90, 70, 150, 120), 85)
	require.NoError(t, err)
	decoded, err = jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 10, decoded.Bounds().Dx())

	_, err = u.CropJPEG(img, image.Rect(200, 200, 220, 220), 85)
	assert.Error(t, err)
}
