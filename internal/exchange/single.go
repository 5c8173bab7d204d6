package exchange

import (
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/dagaz/internal/models"
)

// SingleExt is the file extension for single-document exchange.
const SingleExt = ".mmd"

// DefaultImportName is used when a single-document filename yields no name.
const DefaultImportName = "Imported Diagram"

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9-_ ]+`)

// EncodeSingle renders one diagram as a plain-text file. The content is
// exactly the diagram source; name, theme, and timestamps do not round-trip
// through this channel. The filename is the display name with unsafe
// characters stripped.
func EncodeSingle(d models.Diagram) (filename string, content []byte) {
	safe := unsafeFilenameChars.ReplaceAllString(d.Name, "")
	return safe + SingleExt, []byte(d.Code)
}

// DecodeSingle builds a new diagram from a plain-text file. It always
// succeeds: any text is a valid source for this channel. The name comes
// from the filename with the extension stripped, the theme defaults to
// light, and both timestamps are set to now.
func DecodeSingle(filename string, content []byte) models.Diagram {
	name := filename
	if ext := path.Ext(name); strings.EqualFold(ext, SingleExt) {
		name = name[:len(name)-len(ext)]
	}
	if name == "" {
		name = DefaultImportName
	}
	now := models.NowMillis()
	return models.Diagram{
		ID:        uuid.NewString(),
		Name:      name,
		Code:      string(content),
		Theme:     models.ThemeLight,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
