package tui

import (
	"nag-cli/internal/agent"
	"nag-cli/internal/share"
)

type modalKind int

const (
	modalNone modalKind = iota
	// Unsaved-changes guard before leaving edit for the list.
	modalDiscard
	// Unsaved-changes guard before quitting.
	modalQuit
	modalDelete
	// Unsaved-changes guard before an update reload.
	modalRefresh
	// The draft changed while the refresh was in flight; asked again before reloading.
	modalReload
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// Results of commands run off the event loop. Their effects are applied in Update so the
// navigator is only ever touched from one goroutine.
type (
	updateCheckedMsg struct {
		found bool
		err   error
	}

	// agentMsg carries one message from the caching agent; closed means the
	// subscription ended.
	agentMsg struct {
		msg    agent.Message
		closed bool
	}

	agentHandledMsg struct{}

	flagMsg struct {
		set    bool
		closed bool
	}

	refreshedMsg struct {
		reload bool
		err    error
	}

	helpLoadedMsg struct {
		markdown string
	}

	exportedMsg struct {
		result share.Result
		err    error
	}

	externalEditorDoneMsg struct {
		err error
	}
)
