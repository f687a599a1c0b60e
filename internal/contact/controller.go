// Package contact holds the server-side state machine behind the contact
// form: channel selection, per-channel contact capture, validation and the
// single outbound submission.
package contact

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultResetDelay is how long a success or error line stays visible.
const DefaultResetDelay = 10 * time.Second

// Status is the submission lifecycle: idle → loading → success|error → idle.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithResetDelay overrides DefaultResetDelay.
func WithResetDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.resetAfter = d
		}
	}
}

// WithLocalizer sets the source of status messages.
func WithLocalizer(l Localizer) Option {
	return func(c *Controller) {
		if l != nil {
			c.loc = l
		}
	}
}

// Controller owns one visitor's contact form. It is safe for concurrent use.
type Controller struct {
	sender     Sender
	resetAfter time.Duration

	mu        sync.Mutex
	loc       Localizer
	name      string
	message   string
	selected  []Channel
	contacts  map[Channel]string
	status    Status
	statusMsg string

	inflight context.CancelFunc
	timer    *time.Timer
	gen      uint64
	closed   bool
}

// New returns a controller with a fresh form.
func New(sender Sender, opts ...Option) *Controller {
	c := &Controller{
		sender:     sender,
		resetAfter: DefaultResetDelay,
		loc:        plainMessages{},
		selected:   []Channel{DefaultChannel},
		contacts:   make(map[Channel]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLocalizer swaps the message source, e.g. after a locale switch.
func (c *Controller) SetLocalizer(l Localizer) {
	if l == nil {
		return
	}
	c.mu.Lock()
	c.loc = l
	c.mu.Unlock()
}

// ToggleChannel adds ch to the selection, or removes it unless it is the
// only selected channel, in which case nothing happens.
func (c *Controller) ToggleChannel(ch Channel) error {
	if !ch.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownChannel, string(ch))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	for i, sel := range c.selected {
		if sel != ch {
			continue
		}
		if len(c.selected) == 1 {
			return nil
		}
		c.selected = append(c.selected[:i:i], c.selected[i+1:]...)
		return nil
	}
	c.selected = append(c.selected, ch)
	return nil
}

// SetContactValue stores the handle typed for ch. Values survive deselection.
func (c *Controller) SetContactValue(ch Channel, value string) error {
	if !ch.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownChannel, string(ch))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.contacts[ch] = value
	return nil
}

func (c *Controller) SetName(value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.name = value
	return nil
}

func (c *Controller) SetMessage(value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.message = value
	return nil
}

// Submit validates the form and, if it passes, hands exactly one Submission
// to the Sender. Validation stops at the first failure. The returned error is
// a *ValidationError, wraps ErrDelivery, or is ErrSubmitInFlight/ErrClosed.
// Whatever the outcome, status returns to idle after the reset delay.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.inflight != nil {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}

	c.cancelResetLocked()
	c.status = StatusLoading
	c.statusMsg = ""

	sub, verr := c.validateLocked()
	if verr != nil {
		msg := c.loc.MissingFields()
		if verr.Kind == MissingChannelContact {
			msg = c.loc.MissingContact(verr.Channel)
		}
		c.finishLocked(StatusError, msg)
		c.mu.Unlock()
		return verr
	}

	reqCtx, cancel := context.WithCancel(ctx)
	c.inflight = cancel
	sender := c.sender
	c.mu.Unlock()

	sendErr := sender.Send(reqCtx, sub)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight = nil
	if c.closed {
		return ErrClosed
	}
	if sendErr != nil {
		c.finishLocked(StatusError, c.loc.Failure())
		return fmt.Errorf("%w: %w", ErrDelivery, sendErr)
	}

	c.name = ""
	c.message = ""
	c.contacts = make(map[Channel]string)
	c.selected = []Channel{DefaultChannel}
	c.finishLocked(StatusSuccess, c.loc.Success())
	return nil
}

// Close cancels the in-flight request and the pending reset. It is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.inflight != nil {
		c.inflight()
	}
	c.cancelResetLocked()
}

// State returns a copy of the form for rendering.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	contacts := make(map[Channel]string, len(c.contacts))
	for k, v := range c.contacts {
		contacts[k] = v
	}
	return State{
		Name:          c.name,
		Message:       c.message,
		Selected:      append([]Channel(nil), c.selected...),
		Contacts:      contacts,
		Status:        c.status,
		StatusMessage: c.statusMsg,
	}
}

func (c *Controller) validateLocked() (Submission, *ValidationError) {
	if strings.TrimSpace(c.name) == "" || strings.TrimSpace(c.message) == "" {
		return Submission{}, &ValidationError{Kind: MissingRequiredFields}
	}

	contacts := make(map[Channel]string, len(c.selected))
	for _, ch := range c.selected {
		v := c.contacts[ch]
		if strings.TrimSpace(v) == "" {
			return Submission{}, &ValidationError{Kind: MissingChannelContact, Channel: ch}
		}
		contacts[ch] = v
	}

	return Submission{
		Name:     c.name,
		Message:  c.message,
		Channels: append([]Channel(nil), c.selected...),
		Contacts: contacts,
	}, nil
}

func (c *Controller) finishLocked(s Status, msg string) {
	c.status = s
	c.statusMsg = msg

	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(c.resetAfter, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// a newer submit or Close has taken over
		if c.gen != gen || c.closed {
			return
		}
		c.status = StatusIdle
		c.statusMsg = ""
		c.timer = nil
	})
}

func (c *Controller) cancelResetLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}
