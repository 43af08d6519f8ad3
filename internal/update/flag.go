package update

import "sync"

// Flag is the process-wide "update available" signal. Several producers may raise it and
// any number of views may watch it. Safe for concurrent use.
type Flag struct {
	mu     sync.Mutex
	set    bool
	nextID int
	subs   map[int]chan bool
}

func NewFlag() *Flag {
	return &Flag{subs: map[int]chan bool{}}
}

func (f *Flag) IsSet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set
}

// Raise sets the flag. Raising an already raised flag does nothing.
func (f *Flag) Raise() { f.store(true) }

// Clear lowers the flag (used when the app reloads).
func (f *Flag) Clear() { f.store(false) }

func (f *Flag) store(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.set == v {
		return
	}
	f.set = v
	for _, ch := range f.subs {
		// Latest value wins: drain a stale pending value before sending.
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// Subscribe returns a channel receiving each change of the flag and a cancel func.
// A slow reader only ever sees the most recent value.
func (f *Flag) Subscribe() (<-chan bool, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs == nil {
		f.subs = map[int]chan bool{}
	}
	id := f.nextID
	f.nextID++
	ch := make(chan bool, 1)
	f.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}
