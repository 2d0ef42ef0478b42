package assets

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodeDataURL returns a base64 data URL for data.
func EncodeDataURL(mime string, data []byte) string {
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL splits a data URL into its media type and payload. Both
// base64 and percent-free plain payloads are accepted.
func ParseDataURL(url string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", nil, fmt.Errorf("assets: data url: missing data: prefix")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("assets: data url: missing payload")
	}

	mime := header
	encoded := false
	if before, ok := strings.CutSuffix(header, ";base64"); ok {
		mime = before
		encoded = true
	}
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}

	if !encoded {
		return mime, []byte(payload), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", nil, fmt.Errorf("assets: data url: %w", err)
		}
	}
	return mime, data, nil
}
