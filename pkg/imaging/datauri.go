package imaging

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// extByMime maps the data-URI media types the UI produces to archive file
// extensions.
var extByMime = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ParseDataURI decodes an incoming image payload. It accepts either a full
// "data:<mime>;base64,…" URI or bare base64, and returns the raw bytes plus
// the archive extension for the declared media type ("bin" when unknown).
func ParseDataURI(s string) (data []byte, ext string, err error) {
	s = strings.TrimSpace(s)
	ext = "bin"

	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", fmt.Errorf("%w: malformed data uri", ErrMedia)
		}
		mime, _, _ := strings.Cut(meta, ";")
		if e, ok := extByMime[strings.ToLower(strings.TrimSpace(mime))]; ok {
			ext = e
		}
		s = payload
	}

	data, err = base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, "", fmt.Errorf("%w: base64: %v", ErrMedia, err)
	}
	return data, ext, nil
}
