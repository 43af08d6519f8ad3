package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"nag-cli/internal/model"
)

type WriteOptions struct {
	IncludeEmpty bool
	Overwrite    bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteJournal writes index.md and one page per record under toDir/records. Pages are
// named by journal position, so publishing again after a delete renumbers them.
func WriteJournal(records []model.ThoughtRecord, catalog *model.Catalog, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	if err := os.MkdirAll(filepath.Join(toDir, "records"), 0o755); err != nil {
		return WriteResult{}, err
	}

	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(RenderIndexMarkdown(records, catalog)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on the first error; earlier pages stay written.
	written := []string{indexPath}
	for i, rec := range records {
		md := RenderRecordMarkdown(rec, catalog, RenderOptions{IncludeEmpty: opt.IncludeEmpty})
		p := filepath.Join(toDir, filepath.FromSlash(recordPage(i)))
		if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
			return WriteResult{Written: written}, err
		}
		written = append(written, p)
	}

	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
