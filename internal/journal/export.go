package journal

import (
	"context"
	"encoding/json"

	"nag-cli/internal/model"
	"nag-cli/internal/share"
)

// MarshalExport renders records as indented JSON, the export and backup format.
func MarshalExport(records []model.ThoughtRecord) ([]byte, error) {
	if records == nil {
		records = []model.ThoughtRecord{}
	}
	return json.MarshalIndent(records, "", "  ")
}

// ExportPayload builds the share payload for the current journal.
func (n *Navigator) ExportPayload() (share.Payload, error) {
	b, err := MarshalExport(n.records)
	if err != nil {
		return share.Payload{}, err
	}
	return share.Payload{
		Title: n.catalog.Messages.ExportTitle,
		Text:  n.catalog.Messages.ExportText,
		Data:  b,
	}, nil
}

// Export hands the journal to s. It never changes the session or storage.
// share.ErrUnsupported is returned as is so callers can show the unsupported notice.
func (n *Navigator) Export(ctx context.Context, s share.Sharer) (share.Result, error) {
	p, err := n.ExportPayload()
	if err != nil {
		return share.Result{}, err
	}
	if s == nil {
		s = share.None{}
	}
	return s.Share(ctx, p)
}
