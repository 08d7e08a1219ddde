package qr

import (
	"encoding/base64"
	"errors"

	qrcode "github.com/skip2/go-qrcode"
)

const DefaultSize = 290

var ErrEmptyContent = errors.New("qr content is empty")

// Encode renders text as a PNG QR code of the given pixel size.
func Encode(text string, size int) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}

	return qrcode.Encode(text, qrcode.Medium, size)
}

func DataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
