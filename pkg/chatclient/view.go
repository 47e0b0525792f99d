package chatclient

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RollbackFunc receives the composed body (and parent id, for replies)
// when a send fails, so the caller can restore the input instead of
// losing what the user typed.
type RollbackFunc func(body string, parentID *string)

// ViewConfig tunes a conversation view.
type ViewConfig struct {
	Interval   time.Duration
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	OnUpdate   func([]Message)
	OnRollback RollbackFunc
}

// View is one open conversation: the poller's confirmed server state
// merged with locally pending (optimistically echoed) messages.
// Confirmed order is authoritative; pending entries trail it until the
// server confirms or the send rolls back.
type View struct {
	client *Client
	poller *Poller
	selfID string
	peerID string // empty for the group board

	mu         sync.Mutex
	pending    []Message
	onRollback RollbackFunc
}

// NewDirectView opens a direct conversation view with another
// participant, polling every 3 seconds by default.
func NewDirectView(client *Client, selfID, peerID string, cfg ViewConfig) *View {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultDirectInterval
	}
	v := &View{
		client:     client,
		selfID:     selfID,
		peerID:     peerID,
		onRollback: cfg.OnRollback,
	}
	v.poller = NewPoller(func(ctx context.Context) ([]Message, error) {
		return client.FetchRoom(ctx, peerID)
	}, PollerConfig{
		Interval:   cfg.Interval,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		Backoff:    cfg.Backoff,
		OnUpdate:   cfg.OnUpdate,
	})
	return v
}

// NewBoardView opens the shared group board view, polling every 10
// seconds by default.
func NewBoardView(client *Client, selfID string, cfg ViewConfig) *View {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultGroupInterval
	}
	v := &View{
		client:     client,
		selfID:     selfID,
		onRollback: cfg.OnRollback,
	}
	v.poller = NewPoller(func(ctx context.Context) ([]Message, error) {
		return client.FetchBoard(ctx)
	}, PollerConfig{
		Interval:   cfg.Interval,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		Backoff:    cfg.Backoff,
		OnUpdate:   cfg.OnUpdate,
	})
	return v
}

// Run drives the underlying poll loop; blocks until ctx is cancelled
// or Close is called.
func (v *View) Run(ctx context.Context) {
	v.poller.Run(ctx)
}

// Refresh forces an immediate re-fetch (manual retry).
func (v *View) Refresh(ctx context.Context) {
	v.poller.Refresh(ctx)
}

// SetVisible gates polling while the view is backgrounded.
func (v *View) SetVisible(visible bool) {
	v.poller.SetVisible(visible)
}

// Close tears the view down and cancels its poll timer.
func (v *View) Close() {
	v.poller.Stop()
}

// State reports the delivery state and last fetch error.
func (v *View) State() (State, error) {
	_, state, err := v.poller.Snapshot()
	return state, err
}

// Messages returns the merged view: server-confirmed messages in
// authoritative order, followed by still-pending optimistic entries.
func (v *View) Messages() []Message {
	confirmed, _, _ := v.poller.Snapshot()

	v.mu.Lock()
	defer v.mu.Unlock()

	// Drop any pending entry the server has since confirmed (matched by
	// correlation token, arriving through a poll rather than the send).
	confirmedTokens := make(map[string]bool)
	for _, m := range confirmed {
		if m.ClientMessageID != nil {
			confirmedTokens[*m.ClientMessageID] = true
		}
	}

	kept := v.pending[:0]
	for _, p := range v.pending {
		if p.ClientMessageID == nil || !confirmedTokens[*p.ClientMessageID] {
			kept = append(kept, p)
		}
	}
	v.pending = kept

	out := make([]Message, 0, len(confirmed)+len(v.pending))
	out = append(out, confirmed...)
	out = append(out, v.pending...)
	return out
}

// Send runs the optimistic send pipeline for a direct message or a
// top-level board post. The message is rendered as pending before the
// network call; on failure it is rolled back and the composed body is
// recoverable through the rollback callback.
func (v *View) Send(ctx context.Context, body string) error {
	return v.send(ctx, body, nil)
}

// Reply posts a one-level reply on the board view.
func (v *View) Reply(ctx context.Context, body string, parentID string) error {
	return v.send(ctx, body, &parentID)
}

func (v *View) send(ctx context.Context, body string, parentID *string) error {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		// Rejected locally: no network call, nothing rendered.
		return &Error{Kind: KindValidation, Message: "message body is empty"}
	}

	token := uuid.New().String()
	pendingMsg := Message{
		ID:              "pending-" + token,
		SenderID:        v.selfID,
		Body:            trimmed,
		ParentID:        parentID,
		ClientMessageID: &token,
		CreatedAt:       time.Now(), // client clock, provisional placement only
		Pending:         true,
	}
	if v.peerID != "" {
		peer := v.peerID
		pendingMsg.ReceiverID = &peer
	}

	v.mu.Lock()
	v.pending = append(v.pending, pendingMsg)
	v.mu.Unlock()

	var confirmedMsg *Message
	var err error
	if v.peerID != "" {
		confirmedMsg, err = v.client.SendDirect(ctx, v.peerID, trimmed, token)
	} else {
		confirmedMsg, err = v.client.PostBoard(ctx, trimmed, parentID, token)
	}

	v.removePending(token)

	if err != nil {
		// Rollback: hand the composed content back for retry.
		if v.onRollback != nil {
			v.onRollback(body, parentID)
		}
		return err
	}

	// Adopt the authoritative id/timestamp, then reconcile with any
	// messages that arrived concurrently from other senders.
	v.adoptConfirmed(*confirmedMsg)
	v.poller.Refresh(ctx)

	return nil
}

func (v *View) removePending(token string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	kept := v.pending[:0]
	for _, p := range v.pending {
		if p.ClientMessageID == nil || *p.ClientMessageID != token {
			kept = append(kept, p)
		}
	}
	v.pending = kept
}

func (v *View) adoptConfirmed(msg Message) {
	v.poller.mu.Lock()
	defer v.poller.mu.Unlock()
	// Any fetch still in flight was issued before the server confirmed
	// this send; its list predates the message and must not apply.
	v.poller.appliedSeq = v.poller.nextSeq
	for _, m := range v.poller.confirmed {
		if m.ID == msg.ID {
			return
		}
	}
	v.poller.confirmed = append(v.poller.confirmed, msg)
}

// Threads partitions a board view's messages into top-level posts and
// their replies (ascending CreatedAt within a parent). Replies whose
// parent is absent from the fetched window are held back in Orphans
// rather than rendered under a missing parent.
type Threads struct {
	TopLevel        []Message
	RepliesByParent map[string][]Message
	Orphans         []Message
}

// Threads re-derives thread order from the merged message list.
func (v *View) Threads() Threads {
	return PartitionThreads(v.Messages())
}

// PartitionThreads is the pure partition over client messages; every
// input message lands in exactly one bucket.
func PartitionThreads(msgs []Message) Threads {
	t := Threads{RepliesByParent: make(map[string][]Message)}

	present := make(map[string]bool, len(msgs))
	for _, m := range msgs {
		if m.ParentID == nil {
			present[m.ID] = true
		}
	}

	for _, m := range msgs {
		switch {
		case m.ParentID == nil:
			t.TopLevel = append(t.TopLevel, m)
		case present[*m.ParentID]:
			t.RepliesByParent[*m.ParentID] = append(t.RepliesByParent[*m.ParentID], m)
		default:
			t.Orphans = append(t.Orphans, m)
		}
	}

	for parent := range t.RepliesByParent {
		replies := t.RepliesByParent[parent]
		sort.SliceStable(replies, func(i, j int) bool {
			return replies[i].CreatedAt.Before(replies[j].CreatedAt)
		})
	}

	return t
}
