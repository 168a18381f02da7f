// Package fonts provides the font embedded into rendered diagrams.
//
// Diagrams use Go Mono, shipped with golang.org/x/image, so the font used
// to measure text at compile time is exactly the font the viewer renders.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font/gofont/gomono"
)

// GoMonoTTF returns the TrueType font data.
func GoMonoTTF() []byte {
	return gomono.TTF
}

// Cache for the base64-encoded font (computed once on first access).
var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// GoMonoTTFBase64 returns the TrueType font data as a base64 string.
// The result is cached after first computation.
func GoMonoTTFBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(gomono.TTF)
	})
	return ttfBase64
}

// FontFamily is the CSS font-family name under which the font is embedded.
const FontFamily = "Go Mono"

// FallbackFontFamily lists fonts used when the embedded face fails to load.
const FallbackFontFamily = `'Go Mono', 'DejaVu Sans Mono', Menlo, Consolas, monospace`
