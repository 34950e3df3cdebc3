// Package events provides a dispatcher that routes events to listeners by
// the event's Go type.
//
// Listeners subscribe to a concrete type with [Subscribe] and receive every
// value of exactly that type passed to [Publish]. No inheritance or interface
// matching takes place: a listener for Mutation never sees a *Mutation.
//
//	d := events.New()
//	sub := events.Subscribe(d, func(m events.Mutation) {
//	    fmt.Println(m.Op, m.Nodes)
//	})
//	events.Publish(d, events.Mutation{Op: "collapse", Nodes: []string{"hub"}})
//	sub.Cancel()
//
// Listeners run synchronously on the publishing goroutine, in subscription
// order. A listener that panics is logged and skipped; the remaining
// listeners still run. The dispatcher is safe for concurrent use, and
// listeners may subscribe or cancel from inside a callback.
package events

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// Dispatcher routes published values to the listeners of their type.
// The zero value is not usable - use New.
type Dispatcher struct {
	mu     sync.RWMutex
	table  map[reflect.Type][]listener
	nextID uint64
	logger *log.Logger
}

type listener struct {
	id uint64
	fn any // func(T) for the table key T
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used to report rejected listeners and panics.
// Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates an empty dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		table:  make(map[reflect.Type][]listener),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Subscription identifies one registered listener.
// The zero value is a valid subscription whose Cancel does nothing.
type Subscription struct {
	d   *Dispatcher
	typ reflect.Type
	id  uint64
}

// Cancel removes the listener. Calling Cancel more than once is harmless.
func (s Subscription) Cancel() {
	if s.d == nil {
		return
	}
	s.d.remove(s.typ, s.id)
}

// Subscribe registers fn for events of type T.
// A nil fn is rejected: the error is logged and a zero Subscription returned.
func Subscribe[T any](d *Dispatcher, fn func(T)) Subscription {
	typ := reflect.TypeFor[T]()
	if fn == nil {
		d.logger.Error("attempting to subscribe a nil listener", "event", typ)
		return Subscription{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	d.table[typ] = append(d.table[typ], listener{id: d.nextID, fn: fn})
	return Subscription{d: d, typ: typ, id: d.nextID}
}

// Publish delivers ev to every listener of type T and returns the number of
// listeners that completed without panicking.
func Publish[T any](d *Dispatcher, ev T) int {
	typ := reflect.TypeFor[T]()

	d.mu.RLock()
	ls := slices.Clone(d.table[typ])
	d.mu.RUnlock()

	ok := 0
	for _, l := range ls {
		if invoke(d, typ, l.fn.(func(T)), ev) {
			ok++
		}
	}
	return ok
}

func invoke[T any](d *Dispatcher, typ reflect.Type, fn func(T), ev T) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("exception caught when triggering event listener", "event", typ, "panic", fmt.Sprint(r))
			ok = false
		}
	}()
	fn(ev)
	return true
}

// Count returns the number of listeners subscribed to T.
func Count[T any](d *Dispatcher) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.table[reflect.TypeFor[T]()])
}

// ClearEvent removes every listener of type T.
func ClearEvent[T any](d *Dispatcher) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.table, reflect.TypeFor[T]())
}

// Reset removes all listeners.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.table)
}

func (d *Dispatcher) remove(typ reflect.Type, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ls := slices.DeleteFunc(d.table[typ], func(l listener) bool { return l.id == id })
	if len(ls) == 0 {
		delete(d.table, typ)
		return
	}
	d.table[typ] = ls
}
