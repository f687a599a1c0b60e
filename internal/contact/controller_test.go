package contact

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu    sync.Mutex
	calls []Submission
	err   error
}

func (r *recordingSender) Send(_ context.Context, sub Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, sub)
	return r.err
}

func (r *recordingSender) Calls() []Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Submission(nil), r.calls...)
}

func fillHappyPath(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.SetName("John Doe"))
	require.NoError(t, c.SetMessage("Test message"))
	require.NoError(t, c.SetContactValue(Telegram, "@johndoe"))
}

func TestNewDefaults(t *testing.T) {
	c := New(&recordingSender{})
	st := c.State()

	assert.Equal(t, []Channel{Telegram}, st.Selected)
	assert.Empty(t, st.Name)
	assert.Empty(t, st.Message)
	assert.Empty(t, st.Contacts)
	assert.Equal(t, StatusIdle, st.Status)
	assert.Empty(t, st.StatusMessage)
}

func TestToggleChannel(t *testing.T) {
	t.Run("last channel cannot be removed", func(t *testing.T) {
		c := New(&recordingSender{})
		require.NoError(t, c.ToggleChannel(Telegram))
		assert.Equal(t, []Channel{Telegram}, c.State().Selected)
	})

	t.Run("remove after another is added", func(t *testing.T) {
		c := New(&recordingSender{})
		require.NoError(t, c.ToggleChannel(Email))
		assert.Equal(t, []Channel{Telegram, Email}, c.State().Selected)

		require.NoError(t, c.ToggleChannel(Telegram))
		assert.Equal(t, []Channel{Email}, c.State().Selected)
	})

	t.Run("add then remove keeps the typed value", func(t *testing.T) {
		c := New(&recordingSender{})
		require.NoError(t, c.ToggleChannel(Email))
		require.NoError(t, c.SetContactValue(Email, "me@example.com"))
		require.NoError(t, c.ToggleChannel(Email))

		st := c.State()
		assert.Equal(t, []Channel{Telegram}, st.Selected)
		assert.Equal(t, "me@example.com", st.ContactFor(Email))
	})

	t.Run("selection keeps insertion order", func(t *testing.T) {
		c := New(&recordingSender{})
		for _, ch := range []Channel{Website, VK, Phone} {
			require.NoError(t, c.ToggleChannel(ch))
		}
		require.NoError(t, c.ToggleChannel(VK))
		assert.Equal(t, []Channel{Telegram, Website, Phone}, c.State().Selected)
	})

	t.Run("unknown channel", func(t *testing.T) {
		c := New(&recordingSender{})
		err := c.ToggleChannel(Channel("whatsapp"))
		require.ErrorIs(t, err, ErrUnknownChannel)
		assert.Equal(t, []Channel{Telegram}, c.State().Selected)
	})
}

func TestToggleSequencesNeverEmpty(t *testing.T) {
	c := New(&recordingSender{})
	all := Channels()
	for i := 0; i < 200; i++ {
		ch := all[(i*7+i/3)%len(all)]
		require.NoError(t, c.ToggleChannel(ch))
		require.NotEmpty(t, c.State().Selected, "after toggling %s at step %d", ch, i)
	}
}

func TestSubmitValidation(t *testing.T) {
	t.Run("required fields checked before channels", func(t *testing.T) {
		sender := &recordingSender{}
		c := New(sender)

		err := c.Submit(context.Background())

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, MissingRequiredFields, verr.Kind)
		st := c.State()
		assert.Equal(t, StatusError, st.Status)
		assert.Equal(t, plainMessages{}.MissingFields(), st.StatusMessage)
		assert.Empty(t, sender.Calls())
	})

	t.Run("whitespace only counts as empty", func(t *testing.T) {
		sender := &recordingSender{}
		c := New(sender)
		require.NoError(t, c.SetName("   "))
		require.NoError(t, c.SetMessage("hello"))
		require.NoError(t, c.SetContactValue(Telegram, "@x"))

		var verr *ValidationError
		require.ErrorAs(t, c.Submit(context.Background()), &verr)
		assert.Equal(t, MissingRequiredFields, verr.Kind)
		assert.Empty(t, sender.Calls())
	})

	t.Run("first failing channel is reported", func(t *testing.T) {
		sender := &recordingSender{}
		c := New(sender)
		require.NoError(t, c.ToggleChannel(Email))
		require.NoError(t, c.SetName("John Doe"))
		require.NoError(t, c.SetMessage("Test message"))

		var verr *ValidationError
		require.ErrorAs(t, c.Submit(context.Background()), &verr)
		assert.Equal(t, MissingChannelContact, verr.Kind)
		assert.Equal(t, Telegram, verr.Channel)
		assert.Equal(t, plainMessages{}.MissingContact(Telegram), c.State().StatusMessage)
		assert.Empty(t, sender.Calls())
	})

	t.Run("deselected channel is not validated", func(t *testing.T) {
		sender := &recordingSender{}
		c := New(sender)
		require.NoError(t, c.ToggleChannel(Email))
		require.NoError(t, c.ToggleChannel(Telegram))
		require.NoError(t, c.SetName("John Doe"))
		require.NoError(t, c.SetMessage("Test message"))
		require.NoError(t, c.SetContactValue(Email, "  "))

		var verr *ValidationError
		require.ErrorAs(t, c.Submit(context.Background()), &verr)
		assert.Equal(t, Email, verr.Channel)
	})
}

func TestSubmitHappyPath(t *testing.T) {
	sender := &recordingSender{}
	c := New(sender)
	fillHappyPath(t, c)
	require.NoError(t, c.SetContactValue(Email, "not-selected@example.com"))

	require.NoError(t, c.Submit(context.Background()))

	calls := sender.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, Submission{
		Name:     "John Doe",
		Message:  "Test message",
		Channels: []Channel{Telegram},
		Contacts: map[Channel]string{Telegram: "@johndoe"},
	}, calls[0])

	st := c.State()
	assert.Equal(t, StatusSuccess, st.Status)
	assert.Equal(t, plainMessages{}.Success(), st.StatusMessage)
	assert.Empty(t, st.Name)
	assert.Empty(t, st.Message)
	assert.Empty(t, st.Contacts)
	assert.Equal(t, []Channel{Telegram}, st.Selected)
}

func TestSubmitFailurePreservesInput(t *testing.T) {
	sender := &recordingSender{err: errors.New("connection refused")}
	c := New(sender)
	require.NoError(t, c.ToggleChannel(Email))
	fillHappyPath(t, c)
	require.NoError(t, c.SetContactValue(Email, "john@example.com"))

	err := c.Submit(context.Background())
	require.ErrorIs(t, err, ErrDelivery)
	assert.ErrorContains(t, err, "connection refused")

	st := c.State()
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, plainMessages{}.Failure(), st.StatusMessage)
	assert.NotContains(t, st.StatusMessage, "connection refused")
	assert.Equal(t, "John Doe", st.Name)
	assert.Equal(t, "Test message", st.Message)
	assert.Equal(t, "@johndoe", st.ContactFor(Telegram))
	assert.Equal(t, []Channel{Telegram, Email}, st.Selected)
	assert.Len(t, sender.Calls(), 1)
}

func TestStatusResetsToIdle(t *testing.T) {
	c := New(&recordingSender{}, WithResetDelay(20*time.Millisecond))
	fillHappyPath(t, c)
	require.NoError(t, c.Submit(context.Background()))
	require.Equal(t, StatusSuccess, c.State().Status)

	require.Eventually(t, func() bool {
		st := c.State()
		return st.Status == StatusIdle && st.StatusMessage == ""
	}, time.Second, 5*time.Millisecond)
}

func TestResubmitCancelsPendingReset(t *testing.T) {
	c := New(&recordingSender{}, WithResetDelay(100*time.Millisecond))

	// first attempt fails validation and arms the reset timer
	_ = c.Submit(context.Background())
	require.Equal(t, StatusError, c.State().Status)

	time.Sleep(60 * time.Millisecond)
	fillHappyPath(t, c)
	require.NoError(t, c.Submit(context.Background()))

	// the first timer would have fired by now
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, StatusSuccess, c.State().Status)

	require.Eventually(t, func() bool {
		return c.State().Status == StatusIdle
	}, time.Second, 5*time.Millisecond)
}

func TestSubmitInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	sender := SenderFunc(func(ctx context.Context, _ Submission) error {
		calls.Add(1)
		close(started)
		<-release
		return nil
	})
	c := New(sender)
	fillHappyPath(t, c)

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()
	<-started

	assert.Equal(t, StatusLoading, c.State().Status)
	assert.True(t, c.State().Busy())
	require.ErrorIs(t, c.Submit(context.Background()), ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, StatusSuccess, c.State().Status)
}

func TestCloseCancelsInFlightRequest(t *testing.T) {
	started := make(chan struct{})
	sender := SenderFunc(func(ctx context.Context, _ Submission) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	c := New(sender)
	fillHappyPath(t, c)

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()
	<-started

	c.Close()

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("submit did not return after Close")
	}

	require.ErrorIs(t, c.SetName("x"), ErrClosed)
	require.ErrorIs(t, c.Submit(context.Background()), ErrClosed)
	c.Close()
}

func TestCloseStopsReset(t *testing.T) {
	c := New(&recordingSender{}, WithResetDelay(10*time.Millisecond))
	_ = c.Submit(context.Background())
	c.Close()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, StatusError, c.State().Status)
}

type upperMessages struct{ plainMessages }

func (upperMessages) Success() string { return "SENT" }

func TestLocalizer(t *testing.T) {
	c := New(&recordingSender{}, WithLocalizer(upperMessages{}))
	fillHappyPath(t, c)
	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, "SENT", c.State().StatusMessage)
}
