// Package qr draws QR codes in the terminal.
package qr

import (
	"errors"
	"io"

	"github.com/mdp/qrterminal/v3"
)

// Render writes content to w as a half-block QR code with high error
// correction and a quiet zone of one module.
func Render(w io.Writer, content string) error {
	if content == "" {
		return errors.New("qr: empty content")
	}
	qrterminal.GenerateWithConfig(content, qrterminal.Config{
		Level:          qrterminal.H,
		Writer:         w,
		HalfBlocks:     true,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
		QuietZone:      1,
	})
	return nil
}
