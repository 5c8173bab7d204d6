package exchange

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/starford/dagaz/internal/models"
)

// ShareParam is the query parameter carrying an embedded diagram.
const ShareParam = "shared"

// SharePayload is the subset of a diagram embedded in a share URL.
type SharePayload struct {
	Name  string       `json:"name"`
	Code  string       `json:"code"`
	Theme models.Theme `json:"theme"`
}

// EncodeShareURL embeds the diagram in baseURL as a query parameter. The
// payload is JSON, UTF-8 encoded, then base64: diagram source routinely
// contains multi-byte runes (emoji in node labels), so the bytes must be
// taken from the UTF-8 encoding before the base64 step or they would be
// corrupted in transit.
func EncodeShareURL(baseURL string, d models.Diagram) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("exchange: parse base url: %w", err)
	}
	payload := SharePayload{Name: d.Name, Code: d.Code, Theme: d.Theme}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("exchange: encode share payload: %w", err)
	}
	q := u.Query()
	q.Set(ShareParam, base64.StdEncoding.EncodeToString(raw))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// DecodeShareURL extracts the embedded diagram from a full URL. It returns
// nil when the parameter is absent or the payload is garbage; this path
// runs unconditionally on every page load and must never fault.
func DecodeShareURL(rawURL string) *SharePayload {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return DecodeSharePayload(u.Query().Get(ShareParam))
}

// DecodeSharePayload decodes one base64 share value. Malformed base64,
// malformed JSON, or a missing name/code all yield nil. An absent theme
// defaults to light so older share links keep working.
func DecodeSharePayload(encoded string) *SharePayload {
	if encoded == "" {
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	var payload SharePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	if payload.Name == "" || payload.Code == "" {
		return nil
	}
	if payload.Theme == "" {
		payload.Theme = models.ThemeLight
	}
	return &payload
}

// StripShareParam returns the URL with the share parameter removed, so a
// client can rewrite its visible address and avoid re-importing on refresh.
func StripShareParam(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if _, ok := q[ShareParam]; !ok {
		return rawURL
	}
	q.Del(ShareParam)
	u.RawQuery = q.Encode()
	return u.String()
}
