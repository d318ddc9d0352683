package viewer

import (
	"reflect"
	"sync"

	"github.com/matzehuels/bpview/pkg/blueprint"
	"github.com/matzehuels/bpview/pkg/fit"
)

// Debouncer coalesces redraw requests. A request identical to the last
// one accepted (same surface, same blueprint, same viewport) is dropped,
// since the surface already shows that plan.
// Reset forgets the last request, which forces the next one through.
type Debouncer struct {
	mu   sync.Mutex
	last redraw
	set  bool

	accepted, dropped int
}

type redraw struct {
	surface   Surface
	blueprint *blueprint.Blueprint
	viewport  fit.Viewport
}

// NewDebouncer returns a debouncer with no history.
func NewDebouncer() *Debouncer { return &Debouncer{} }

// Allow reports whether a redraw of b on s should run. Surfaces whose
// dynamic type is not comparable have no identity to key on; their
// requests are always allowed.
func (d *Debouncer) Allow(s Surface, b *blueprint.Blueprint) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t := reflect.TypeOf(s); t == nil || !t.Comparable() {
		d.last, d.set = redraw{}, false
		d.accepted++
		return true
	}

	r := redraw{surface: s, blueprint: b, viewport: s.Viewport()}
	if d.set && d.last == r {
		d.dropped++
		return false
	}
	d.last, d.set = r, true
	d.accepted++
	return true
}

// Reset forgets the last accepted request.
func (d *Debouncer) Reset() {
	d.mu.Lock()
	d.last, d.set = redraw{}, false
	d.mu.Unlock()
}

// Stats returns how many requests were accepted and dropped.
func (d *Debouncer) Stats() (accepted, dropped int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.accepted, d.dropped
}
