// Package imagedata normalizes screenshots passed as base64 or data URIs.
package imagedata

import "strings"

const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
	MIMEGIF  = "image/gif"
	MIMEWebP = "image/webp"
)

// Image is a base64 payload with its MIME type.
type Image struct {
	Data     string
	MIMEType string
}

//nolint:gochecknoglobals // static lookup table
var magicPrefixes = []struct {
	prefix string
	mime   string
}{
	{"iVBORw0KGgo", MIMEPNG},
	{"/9j/", MIMEJPEG},
	{"R0lGOD", MIMEGIF},
	{"UklGR", MIMEWebP},
}

// Parse splits a data URI into payload and MIME type. Bare base64 gets its MIME
// type from the payload's magic bytes. A data URI without a payload yields an
// empty Image.
func Parse(raw string) Image {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "data:") {
		header, data, found := strings.Cut(raw, ",")
		if !found {
			return Image{}
		}
		mime := strings.TrimPrefix(header, "data:")
		mime, _, _ = strings.Cut(mime, ";")
		if mime == "" {
			mime = InferMIME(data)
		}
		return Image{Data: data, MIMEType: mime}
	}

	return Image{Data: raw, MIMEType: InferMIME(raw)}
}

// InferMIME guesses the type of base64 data, defaulting to PNG.
func InferMIME(data string) string {
	for _, m := range magicPrefixes {
		if strings.HasPrefix(data, m.prefix) {
			return m.mime
		}
	}
	return MIMEPNG
}

// DataURI returns raw as an image URL: data URIs pass through, bare base64 is
// labelled as PNG.
func DataURI(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "data:") {
		return raw
	}
	return "data:" + MIMEPNG + ";base64," + raw
}
