// Package chatclient is the Go delivery client for the Campus Connect
// messaging API: a polling fetcher with an optimistic send pipeline.
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds every network call. Exceeding it is treated as
// a retryable connectivity failure, never a fatal one.
const DefaultTimeout = 5 * time.Second

// Message mirrors the server's message payload. Pending is client-side
// only: true for optimistically rendered messages awaiting confirmation.
type Message struct {
	ID              string    `json:"id"`
	SenderID        string    `json:"senderId"`
	ReceiverID      *string   `json:"receiverId,omitempty"`
	Body            string    `json:"body"`
	RoomID          *string   `json:"roomId,omitempty"`
	ParentID        *string   `json:"parentId,omitempty"`
	ClientMessageID *string   `json:"clientMessageId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`

	Pending bool `json:"-"`
}

// Contact is a participant the caller has a conversation with.
type Contact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Branch string `json:"branch"`
	Year   int    `json:"year"`
}

// Client is a Campus Connect API client. The bearer token comes from
// the authentication collaborator; the client treats it as opaque.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a client with the default timeout.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: err.Error(), Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, classifyTransport(ctxErr)
		}
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.Unmarshal(respBody, &errResp)
		return nil, classifyStatus(resp.StatusCode, errResp.Error)
	}

	return respBody, nil
}

// FetchRoom retrieves the direct conversation with another participant,
// oldest first.
func (c *Client) FetchRoom(ctx context.Context, otherID string) ([]Message, error) {
	path := "/api/chat/messages?userId=" + url.QueryEscape(otherID)
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Messages []Message `json:"messages"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Kind: KindStorage, Message: "malformed response", Err: err}
	}
	return resp.Messages, nil
}

// FetchBoard retrieves the group feed, newest first at the storage
// layer; thread order is re-derived locally.
func (c *Client) FetchBoard(ctx context.Context) ([]Message, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/board/messages", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Messages []Message `json:"messages"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Kind: KindStorage, Message: "malformed response", Err: err}
	}
	return resp.Messages, nil
}

// Contacts enumerates participants the caller has messaged or been
// messaged by.
func (c *Client) Contacts(ctx context.Context) ([]Contact, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/chat/contacts", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Contacts []Contact `json:"contacts"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Kind: KindStorage, Message: "malformed response", Err: err}
	}
	return resp.Contacts, nil
}

// SendDirect appends a direct message. clientMessageID is the
// correlation token echoed back for optimistic reconciliation.
func (c *Client) SendDirect(ctx context.Context, receiverID, body, clientMessageID string) (*Message, error) {
	payload, _ := json.Marshal(map[string]string{
		"receiverId":      receiverID,
		"body":            body,
		"clientMessageId": clientMessageID,
	})

	respBody, err := c.doRequest(ctx, http.MethodPost, "/api/chat/messages", payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Message Message `json:"message"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &Error{Kind: KindStorage, Message: "malformed response", Err: err}
	}
	return &resp.Message, nil
}

// PostBoard appends a group message, optionally as a one-level reply.
func (c *Client) PostBoard(ctx context.Context, body string, parentID *string, clientMessageID string) (*Message, error) {
	req := map[string]interface{}{
		"body":            body,
		"clientMessageId": clientMessageID,
	}
	if parentID != nil {
		req["parentId"] = *parentID
	}
	payload, _ := json.Marshal(req)

	respBody, err := c.doRequest(ctx, http.MethodPost, "/api/board/messages", payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Message Message `json:"message"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &Error{Kind: KindStorage, Message: "malformed response", Err: err}
	}
	return &resp.Message, nil
}
