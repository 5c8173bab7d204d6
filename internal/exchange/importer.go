package exchange

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/starford/dagaz/internal/models"
)

// BackupExt is the file extension for multi-diagram backup exchange.
const BackupExt = ".json"

// File is one opaque import source: a dropped or picked file.
type File struct {
	Name   string
	Reader io.Reader
}

// ProcessFiles decodes a batch of import files, strictly in input order,
// and aggregates every per-file outcome into one result.
//
// The batch never hard-fails: an unreadable, unrecognized, or corrupt file
// contributes an error string and the rest of the batch continues, so one
// bad file can't sink four good ones. Success is true when at least one
// file yielded records. Callers persist the returned diagrams themselves
// and typically select the first as the new current diagram.
func ProcessFiles(files []File) ImportResult {
	out := ImportResult{Errors: []string{}, Diagrams: []models.Diagram{}}

	for _, f := range files {
		switch {
		case strings.EqualFold(path.Ext(f.Name), BackupExt):
			data, err := io.ReadAll(f.Reader)
			if err != nil {
				out.Errors = append(out.Errors, fmt.Sprintf("failed to read file %s: %v", f.Name, err))
				continue
			}
			res := DecodeBackup(data)
			if res.Success {
				out.Success = true
			}
			out.Imported += res.Imported
			out.Errors = append(out.Errors, res.Errors...)
			out.Diagrams = append(out.Diagrams, res.Diagrams...)

		case strings.EqualFold(path.Ext(f.Name), SingleExt):
			data, err := io.ReadAll(f.Reader)
			if err != nil {
				out.Errors = append(out.Errors, fmt.Sprintf("failed to read file %s: %v", f.Name, err))
				continue
			}
			d := DecodeSingle(f.Name, data)
			out.Success = true
			out.Imported++
			out.Diagrams = append(out.Diagrams, d)

		default:
			out.Errors = append(out.Errors, fmt.Sprintf("unsupported file type: %s", f.Name))
		}
	}

	return out
}
