// Package share hands exported data to whatever the host offers for passing it on.
package share

import (
	"context"
	"errors"
)

// ErrUnsupported means the device has no usable share target.
var ErrUnsupported = errors.New("share: not supported on this device")

// Payload mirrors the title/text/url triple of a platform share sheet. Data carries the
// content itself for targets that work with bytes rather than links.
type Payload struct {
	Title string
	Text  string
	URL   string
	Data  []byte
}

// Result describes where a payload ended up, for the notice shown to the user.
type Result struct {
	Target string
	URL    string
}

type Sharer interface {
	Share(ctx context.Context, p Payload) (Result, error)
}

// None is a Sharer for hosts without any share target.
type None struct{}

func (None) Share(context.Context, Payload) (Result, error) {
	return Result{}, ErrUnsupported
}

// Chain tries each sharer in order and returns the first that is supported.
type Chain []Sharer

func (c Chain) Share(ctx context.Context, p Payload) (Result, error) {
	for _, s := range c {
		res, err := s.Share(ctx, p)
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		return res, err
	}
	return Result{}, ErrUnsupported
}
