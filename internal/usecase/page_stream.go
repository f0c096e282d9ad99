package usecase

import (
	"context"
	"errors"
	"io"

	"github.com/3-lines-studio/pagestream/internal/core"
)

// Emitter is the producer side of a page stream. It normalizes pages before
// sending them and closes the channel after the single end event.
type Emitter struct {
	ch    chan<- core.Event
	sent  int
	ended bool
}

func NewEmitter(ch chan<- core.Event) *Emitter {
	return &Emitter{ch: ch}
}

// NewPageStream returns a connected emitter and receive channel.
func NewPageStream(buffer int) (*Emitter, <-chan core.Event) {
	ch := make(chan core.Event, buffer)
	return NewEmitter(ch), ch
}

func (e *Emitter) Set(ctx context.Context, page core.SetDataForSlug) error {
	ev := core.Set(page)
	if e.ended {
		return &core.ProtocolViolationError{Index: e.sent, Slug: ev.Page.Slug}
	}
	return e.send(ctx, ev)
}

func (e *Emitter) End(ctx context.Context) error {
	if e.ended {
		return &core.ProtocolViolationError{Index: e.sent}
	}
	err := e.send(ctx, core.End())
	e.ended = true
	close(e.ch)
	return err
}

func (e *Emitter) Ended() bool {
	return e.ended
}

func (e *Emitter) send(ctx context.Context, ev core.Event) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case e.ch <- ev:
		e.sent++
		return nil
	}
}

// ConsumeEvents calls handle for every set event in order and returns the
// number of pages handled once the end event arrives, without waiting for
// the channel to close. Events already buffered behind the end event are
// reported as a protocol violation. A channel closed before the end event
// yields ErrStreamTruncated.
func ConsumeEvents(ctx context.Context, events <-chan core.Event, handle func(core.SetDataForSlug) error) (int, error) {
	handled := 0

	for index := 0; ; index++ {
		select {
		case <-ctx.Done():
			return handled, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return handled, core.ErrStreamTruncated
			}

			switch ev := ev.(type) {
			case core.SetEvent:
				if err := handle(ev.Page); err != nil {
					return handled, err
				}
				handled++
			case core.EndEvent:
				return handled, checkDrained(events, index+1)
			}
		}
	}
}

// checkDrained reports an event already buffered behind the end event
// without blocking on a producer that keeps the channel open.
func checkDrained(events <-chan core.Event, index int) error {
	select {
	case ev, ok := <-events:
		if ok {
			return lateEvent(ev, index)
		}
	default:
	}
	return nil
}

func lateEvent(ev core.Event, index int) error {
	if set, ok := ev.(core.SetEvent); ok {
		return &core.ProtocolViolationError{Index: index, Slug: set.Page.Slug}
	}
	return &core.ProtocolViolationError{Index: index}
}

// EventSource yields decoded events and io.EOF once the input is exhausted.
type EventSource interface {
	Next() (core.Event, error)
}

// PumpEvents forwards events from src onto ch as they are decoded and closes
// ch when src is exhausted, fails, or yields an event after the end event.
// The end event is forwarded before anything after it is read, so a
// consumer never waits on the source once the stream has ended.
func PumpEvents(ctx context.Context, src EventSource, ch chan<- core.Event) error {
	defer close(ch)

	ended := false
	for index := 0; ; index++ {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if ended {
			return lateEvent(ev, index)
		}
		_, ended = ev.(core.EndEvent)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- ev:
		}
	}
}
