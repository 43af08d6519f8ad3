package cli

import (
	"errors"
	"fmt"
)

var errNoServer = errors.New("no server configured; pass --server, set NAG_SERVER_URL, or run `nag config set server <url>`")

var errEmptyRecord = errors.New("nothing to save; pass at least one answer flag (see `nag records add --help`)")

type indexError struct {
	arg string
	len int
}

func (e indexError) Error() string {
	if e.len == 0 {
		return fmt.Sprintf("record not found: %s (the journal is empty)", e.arg)
	}
	return fmt.Sprintf("record not found: %s (valid: 0..%d)", e.arg, e.len-1)
}

func errIndex(arg string, n int) error {
	return indexError{arg: arg, len: n}
}
