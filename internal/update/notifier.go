// Package update detects newer deployed builds and exposes the result as one shared flag.
package update

import (
	"context"
	"log/slog"

	"nag-cli/internal/agent"
	"nag-cli/internal/model"
)

// VersionStore remembers the last deployed version the user accepted.
type VersionStore interface {
	LoadVersion(ctx context.Context) (model.Version, error)
	SaveVersion(ctx context.Context, v model.Version) error
}

// Guard is the unsaved-changes check run before a refresh discards the session.
type Guard func() bool

type Notifier struct {
	fetcher Fetcher
	store   VersionStore
	flag    *Flag
	log     *slog.Logger
}

func NewNotifier(f Fetcher, st VersionStore, flag *Flag, log *slog.Logger) *Notifier {
	if flag == nil {
		flag = NewFlag()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{fetcher: f, store: st, flag: flag, log: log}
}

func (n *Notifier) Flag() *Flag { return n.flag }

// Check compares the deployed version with the last accepted one and raises the flag on
// mismatch. Failures are logged and returned; callers are free to ignore them.
func (n *Notifier) Check(ctx context.Context) (bool, error) {
	remote, err := n.fetcher.FetchVersion(ctx)
	if err != nil {
		n.log.Warn("update check failed", "err", err)
		return false, err
	}
	local, err := n.store.LoadVersion(ctx)
	if err != nil {
		n.log.Warn("read last-seen version failed", "err", err)
		local = model.Version{}
	}
	n.log.Debug("update check", "remote", remote.Version, "local", local.Version)
	if remote.Version == local.Version {
		return false, nil
	}
	n.log.Info("new version available", "remote", remote.Version, "local", local.Version)
	n.markAvailable()
	return true, nil
}

func (n *Notifier) markAvailable() {
	n.flag.Raise()
}

// HandleMessage applies a message from the caching agent. Unknown messages are ignored.
func (n *Notifier) HandleMessage(ctx context.Context, msg agent.Message) {
	switch msg.Msg {
	case agent.MsgUpdateFound:
		n.log.Info("agent reported update", "payload", string(msg.Payload))
		n.markAvailable()
	case agent.MsgActivate:
		_, _ = n.Check(ctx)
	default:
		n.log.Debug("ignoring agent message", "msg", msg.Msg)
	}
}

// Refresh accepts the deployed version. It asks guard first; on agreement it records the
// current remote version as last seen and reports that the caller must reload.
func (n *Notifier) Refresh(ctx context.Context, guard Guard) (bool, error) {
	if guard != nil && !guard() {
		return false, nil
	}
	remote, err := n.fetcher.FetchVersion(ctx)
	if err != nil {
		n.log.Warn("refresh: fetch version failed", "err", err)
		return false, err
	}
	if err := n.store.SaveVersion(ctx, remote); err != nil {
		return false, err
	}
	n.log.Info("accepted version", "version", remote.Version)
	return true, nil
}
