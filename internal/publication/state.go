// Package publication implements the draft/published lifecycle shared by
// resources and posts. Deletion is not a state: it removes the record.
package publication

import (
	"context"
	"fmt"
)

type State string

const (
	Draft     State = "draft"
	Published State = "published"
)

type Event string

const (
	Publish   Event = "publish"
	Unpublish Event = "unpublish"
)

// Initial returns the state of a newly created record.
func Initial(published bool) State {
	return FromFlag(published)
}

// FromFlag maps the stored published flag to a state.
func FromFlag(published bool) State {
	if published {
		return Published
	}
	return Draft
}

func (s State) Flag() bool {
	return s == Published
}

// ParseEvent accepts the event names used in routes.
func ParseEvent(name string) (Event, error) {
	switch Event(name) {
	case Publish, Unpublish:
		return Event(name), nil
	}
	return "", fmt.Errorf("unknown publication event %q", name)
}

// EventFor returns the event that moves a record to the given flag.
func EventFor(published bool) Event {
	if published {
		return Publish
	}
	return Unpublish
}

// Transition returns the state reached from s on e. Both events are
// idempotent: publishing a published record leaves it published.
func Transition(s State, e Event) State {
	switch e {
	case Publish:
		return Published
	case Unpublish:
		return Draft
	}
	return s
}

// Apply moves a record from current on e and calls persist only when the
// state actually changes. It reports whether a write happened.
func Apply(ctx context.Context, current State, e Event, persist func(ctx context.Context, published bool) error) (State, bool, error) {
	next := Transition(current, e)
	if next == current {
		return current, false, nil
	}
	if err := persist(ctx, next.Flag()); err != nil {
		return current, false, err
	}
	return next, true, nil
}
