package answer

import (
	"fmt"

	"quickapply/internal/domain/entity"
)

const DefaultWindowSize = 5

// Window is the bounded message history sent with every generation call.
// Pinned seed messages stay at the front; when a push exceeds the cap the
// oldest unpinned entry is evicted.
type Window struct {
	size    int
	pinned  int
	entries []entity.Message
}

func NewWindow(size int, seeds ...entity.Message) (*Window, error) {
	if size <= 0 {
		size = DefaultWindowSize
	}
	if len(seeds) >= size {
		return nil, fmt.Errorf("%d seed messages leave no room in a window of %d", len(seeds), size)
	}
	entries := make([]entity.Message, 0, size)
	entries = append(entries, seeds...)
	return &Window{size: size, pinned: len(seeds), entries: entries}, nil
}

func (w *Window) Push(msg entity.Message) {
	w.entries = append(w.entries, msg)
	if len(w.entries) > w.size {
		w.entries = append(w.entries[:w.pinned], w.entries[w.pinned+1:]...)
	}
}

// Messages returns a copy of the current window.
func (w *Window) Messages() []entity.Message {
	out := make([]entity.Message, len(w.entries))
	copy(out, w.entries)
	return out
}

func (w *Window) Len() int {
	return len(w.entries)
}
