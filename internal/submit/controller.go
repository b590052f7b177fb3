// Package submit owns the lifecycle of a generation request: it
// validates and snapshots the form, drives the single network
// exchange, materializes the result, and projects the outcome as one
// of four externally observable states.
package submit

import (
	"context"
	"errors"

	"github.com/slidecraft/deckgen/internal/artifact"
	"github.com/slidecraft/deckgen/internal/form"
)

// Status is the externally observable submission state.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// ErrInFlight is returned by Begin while a submission is outstanding.
// Callers surface it without changing state; the machine only ever
// leaves Submitting through Finish.
var ErrInFlight = errors.New("a submission is already in flight")

// Sender performs the network exchange. transport.Client satisfies it;
// tests substitute stubs.
type Sender interface {
	Send(ctx context.Context, sub *form.Submission) ([]byte, error)
}

// Controller is the submission orchestrator. It is confined to the UI
// event loop: all methods must be called from a single goroutine, with
// only the Sender call happening off-loop between Begin and Finish.
type Controller struct {
	State form.State

	sender Sender
	store  *artifact.Store

	status Status
	errMsg string
	handle *artifact.Handle
}

// NewController wires the orchestrator to a sender and artifact store.
func NewController(sender Sender, store *artifact.Store) *Controller {
	return &Controller{sender: sender, store: store, status: StatusIdle}
}

// Status returns the current state of the machine.
func (c *Controller) Status() Status {
	return c.status
}

// ErrorMessage returns the failure message, "" outside Failed.
func (c *Controller) ErrorMessage() string {
	return c.errMsg
}

// Handle returns the current download handle, nil outside Succeeded.
func (c *Controller) Handle() *artifact.Handle {
	return c.handle
}

// Begin validates the form and, on success, snapshots it and enters
// Submitting, clearing the previous error and handle reference. The
// superseded handle's file is released lazily, when the replacement
// materializes, so a visible artifact never disappears mid-flight.
// Validation failure enters Failed without any network activity.
// While Submitting, Begin rejects with ErrInFlight and changes
// nothing.
func (c *Controller) Begin() (*form.Submission, error) {
	if c.status == StatusSubmitting {
		return nil, ErrInFlight
	}

	sub, err := form.Build(c.State)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.status = StatusSubmitting
	c.errMsg = ""
	c.handle = nil
	return sub, nil
}

// Finish resolves the in-flight submission with the transport outcome.
// Exactly one of data/sendErr is meaningful. Every failure kind lands
// in Failed with a message; success materializes the artifact and
// lands in Succeeded.
func (c *Controller) Finish(data []byte, sendErr error) {
	if sendErr != nil {
		c.fail(sendErr)
		return
	}

	h, err := c.store.Materialize(data)
	if err != nil {
		c.fail(err)
		return
	}
	c.status = StatusSucceeded
	c.errMsg = ""
	c.handle = h
}

func (c *Controller) fail(err error) {
	c.status = StatusFailed
	c.handle = nil
	if msg := err.Error(); msg != "" {
		c.errMsg = msg
	} else {
		c.errMsg = "generation failed"
	}
}

// Submit runs one full submission synchronously: Begin, the exchange,
// Finish. CLI mode uses this; the TUI splits the steps across the
// event loop instead.
func (c *Controller) Submit(ctx context.Context) error {
	sub, err := c.Begin()
	if err != nil {
		return err
	}

	data, sendErr := c.sender.Send(ctx, sub)
	c.Finish(data, sendErr)

	if c.status == StatusFailed {
		return errors.New(c.errMsg)
	}
	return nil
}
