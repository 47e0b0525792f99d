package chatclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSend_BlankBodyRejectedLocally(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(messagesResponse(nil))
	}))
	defer srv.Close()

	v := NewDirectView(NewClient(srv.URL, "token"), "S1", "S2", ViewConfig{})
	defer v.Close()

	err := v.Send(context.Background(), "   ")

	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, int64(0), hits.Load(), "no network call for locally rejected input")
	assert.Empty(t, v.Messages(), "nothing rendered for rejected input")
}

func TestSend_OptimisticRollbackOnConnectivityFailure(t *testing.T) {
	// Nothing listening at this address: every call fails at transport.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	unreachable := srv.URL
	srv.Close()

	var rolledBackBody string
	v := NewDirectView(NewClient(unreachable, "token"), "S1", "S2", ViewConfig{
		OnRollback: func(body string, parentID *string) {
			rolledBackBody = body
		},
	})
	defer v.Close()

	err := v.Send(context.Background(), "important message")

	assert.Equal(t, KindConnectivity, KindOf(err))
	// The temporary message is removed and the content is recoverable.
	assert.Empty(t, v.Messages())
	assert.Equal(t, "important message", rolledBackBody)
}

func TestSend_ConfirmationReplacesPendingByToken(t *testing.T) {
	var sent []Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req struct {
				ReceiverID      string `json:"receiverId"`
				Body            string `json:"body"`
				ClientMessageID string `json:"clientMessageId"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			assert.NotEmpty(t, req.ClientMessageID)

			msg := Message{
				ID:              "server-1",
				SenderID:        "S1",
				Body:            req.Body,
				ClientMessageID: &req.ClientMessageID,
				CreatedAt:       time.Now(),
			}
			sent = append(sent, msg)
			body, _ := json.Marshal(map[string]Message{"message": msg})
			w.WriteHeader(http.StatusCreated)
			w.Write(body)
		default:
			w.Write(messagesResponse(sent))
		}
	}))
	defer srv.Close()

	v := NewDirectView(NewClient(srv.URL, "token"), "S1", "S2", ViewConfig{})
	defer v.Close()

	err := v.Send(context.Background(), "hello")
	assert.NoError(t, err)

	msgs := v.Messages()
	assert.Len(t, msgs, 1)
	// Authoritative id adopted, no duplicate pending entry left behind
	assert.Equal(t, "server-1", msgs[0].ID)
	assert.False(t, msgs[0].Pending)
}

func TestSend_InFlightFetchCannotDropConfirmed(t *testing.T) {
	// A poll fetch already in flight when the server confirms a send
	// carries a list that predates the message. Its late arrival must
	// not unrender the confirmed message while the post-send refresh is
	// still on the wire.
	var sent []Message
	var gets atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req struct {
				Body            string `json:"body"`
				ClientMessageID string `json:"clientMessageId"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			msg := Message{
				ID:              "server-1",
				SenderID:        "S1",
				Body:            req.Body,
				ClientMessageID: &req.ClientMessageID,
				CreatedAt:       time.Now(),
			}
			sent = append(sent, msg)
			body, _ := json.Marshal(map[string]Message{"message": msg})
			w.WriteHeader(http.StatusCreated)
			w.Write(body)
		default:
			switch gets.Add(1) {
			case 1:
				// Pre-send snapshot, delivered after the confirmation
				time.Sleep(150 * time.Millisecond)
				w.Write(messagesResponse(nil))
			default:
				// Post-send refresh, slower still
				time.Sleep(300 * time.Millisecond)
				w.Write(messagesResponse(sent))
			}
		}
	}))
	defer srv.Close()

	v := NewDirectView(NewClient(srv.URL, "token"), "S1", "S2", ViewConfig{
		Interval: time.Hour,
		Backoff:  time.Hour,
	})
	ctx := context.Background()
	go v.Run(ctx)
	defer v.Close()

	waitFor(t, func() bool { return gets.Load() == 1 }, "initial fetch to start")

	err := v.Send(ctx, "hello")
	assert.NoError(t, err)
	assert.Len(t, v.Messages(), 1)

	// Past the pre-send fetch's landing, before the refresh completes
	time.Sleep(200 * time.Millisecond)
	msgs := v.Messages()
	assert.Len(t, msgs, 1)
	assert.Equal(t, "server-1", msgs[0].ID)

	waitFor(t, func() bool {
		state, _ := v.State()
		return state == StateIdle
	}, "post-send refresh to land")
	assert.Len(t, v.Messages(), 1)
}

func TestMessages_PendingConfirmedThroughPoll(t *testing.T) {
	// A pending entry whose token shows up in a fetched list must be
	// dropped (dedup by correlation token, not content).
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(messagesResponse(nil))
	}))
	defer srv.Close()

	v := NewDirectView(NewClient(srv.URL, "token"), "S1", "S2", ViewConfig{})
	defer v.Close()

	token := "corr-123"
	v.mu.Lock()
	v.pending = append(v.pending, Message{
		ID: "pending-" + token, SenderID: "S1", Body: "hi",
		ClientMessageID: &token, Pending: true,
	})
	v.mu.Unlock()

	v.poller.mu.Lock()
	v.poller.confirmed = []Message{
		{ID: "server-9", SenderID: "S1", Body: "hi", ClientMessageID: &token},
	}
	v.poller.mu.Unlock()

	msgs := v.Messages()
	assert.Len(t, msgs, 1)
	assert.Equal(t, "server-9", msgs[0].ID)
}

func TestBoardView_ReplyAndThreads(t *testing.T) {
	parent := "T1"
	feed := []Message{
		{ID: "T1", SenderID: "S1", Body: "topic?", CreatedAt: time.Now().Add(-time.Minute)},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req struct {
				Body            string `json:"body"`
				ParentID        string `json:"parentId"`
				ClientMessageID string `json:"clientMessageId"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			assert.Equal(t, parent, req.ParentID)

			msg := Message{
				ID:              "R1",
				SenderID:        "S2",
				Body:            req.Body,
				ParentID:        &req.ParentID,
				ClientMessageID: &req.ClientMessageID,
				CreatedAt:       time.Now(),
			}
			feed = append(feed, msg)
			body, _ := json.Marshal(map[string]Message{"message": msg})
			w.WriteHeader(http.StatusCreated)
			w.Write(body)
		default:
			w.Write(messagesResponse(feed))
		}
	}))
	defer srv.Close()

	v := NewBoardView(NewClient(srv.URL, "token"), "S2", ViewConfig{})
	defer v.Close()

	err := v.Reply(context.Background(), "answer", parent)
	assert.NoError(t, err)

	// Wait for the post-send refresh to land the full feed
	waitFor(t, func() bool { return len(v.Messages()) == 2 }, "refresh to fetch the feed")

	threads := v.Threads()
	assert.Len(t, threads.RepliesByParent[parent], 1)
	assert.Equal(t, "R1", threads.RepliesByParent[parent][0].ID)
	for _, top := range threads.TopLevel {
		assert.Nil(t, top.ParentID)
	}
}
