package model

// Messages holds the user-facing strings of one locale that are not prompts.
type Messages struct {
	DiscardChanges   string
	ExportTitle      string
	ExportText       string
	ShareUnsupported string
	UpdateAvailable  string
	DeleteRecord     string
	Exported         string
	Yes, No          string

	// DateLayout is a time.Format layout used for list timestamps.
	DateLayout string
}
