package service

import "sync"

// Event names published on store mutations. Dependent views subscribe
// instead of polling storage on an interval.
const (
	EventMealsChanged   = "meals.changed"
	EventProfileChanged = "profile.changed"
)

var bus = struct {
	mu   sync.Mutex
	subs map[string][]func()
}{subs: map[string][]func(){}}

// OnChange registers fn to run whenever event is emitted. Handlers run
// synchronously on the mutating call, so keep them short.
func OnChange(event string, fn func()) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subs[event] = append(bus.subs[event], fn)
}

func emit(event string) {
	bus.mu.Lock()
	handlers := append([]func(){}, bus.subs[event]...)
	bus.mu.Unlock()
	for _, fn := range handlers {
		fn()
	}
}
