package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

func (c *Client) ListThreads(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Thread, error) {
	return list[*model.Thread](ctx, c, "/messaging/threads/", interfaces.BuildListQuery(opts...))
}

func (c *Client) GetThread(ctx context.Context, id model.ID) (*model.Thread, error) {
	return doJSON[model.Thread](ctx, c, http.MethodGet, "/messaging/threads/"+escape(id)+"/", nil)
}

func (c *Client) CreateThread(ctx context.Context, input *model.ThreadInput) (*model.Thread, error) {
	return doJSON[model.Thread](ctx, c, http.MethodPost, "/messaging/threads/", input)
}

type messageCursor struct {
	NextCursor string `json:"next_cursor"`
	Next       string `json:"next"`
}

type messagePageBody struct {
	messageCursor
	Results    []*model.Message `json:"results"`
	Pagination *messageCursor   `json:"pagination"`
}

// ListMessages returns one page of a thread's messages, newest first
func (c *Client) ListMessages(ctx context.Context, threadID model.ID, cursor string, limit int) (*model.MessagePage, error) {
	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	path := "/messaging/threads/" + escape(threadID) + "/messages/"
	var raw json.RawMessage
	if err := c.call(ctx, request{method: http.MethodGet, path: path, query: query}, &raw); err != nil {
		return nil, err
	}

	// pagination may sit beside the data envelope
	var outer messagePageBody
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		_ = json.Unmarshal(trimmed, &outer)
	}

	var body messagePageBody
	raw = unwrapListData(raw)
	switch {
	case len(raw) == 0:
	case raw[0] == '[':
		if err := json.Unmarshal(raw, &body.Results); err != nil {
			return nil, goerr.Wrap(ErrDecodeResponse, "failed to decode messages", goerr.V("cause", err.Error()))
		}
	default:
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, goerr.Wrap(ErrDecodeResponse, "failed to decode message page", goerr.V("cause", err.Error()))
		}
	}

	cursor := body.messageCursor
	for _, p := range []*messageCursor{body.Pagination, outer.Pagination} {
		if cursor.NextCursor == "" && cursor.Next == "" && p != nil {
			cursor = *p
		}
	}

	next := cursor.NextCursor
	if next == "" && cursor.Next != "" {
		// cursor pagination links carry the cursor as a query parameter
		u, err := url.Parse(cursor.Next)
		if err != nil {
			return nil, goerr.Wrap(ErrDecodeResponse, "invalid next link", goerr.V("next", cursor.Next))
		}
		next = u.Query().Get("cursor")
	}

	results := make([]*model.Message, 0, len(body.Results))
	for _, m := range body.Results {
		if m == nil {
			continue
		}
		if m.ThreadID == "" {
			m.ThreadID = threadID
		}
		results = append(results, m)
	}

	return &model.MessagePage{Results: results, NextCursor: next}, nil
}

func (c *Client) SendMessage(ctx context.Context, threadID model.ID, content string) (*model.Message, error) {
	msg, err := doJSON[model.Message](ctx, c, http.MethodPost, "/messaging/threads/"+escape(threadID)+"/messages/", map[string]string{"content": content})
	if err != nil {
		return nil, err
	}
	if msg.ThreadID == "" {
		msg.ThreadID = threadID
	}
	return msg, nil
}

func (c *Client) MarkMessageRead(ctx context.Context, messageID model.ID) error {
	return c.call(ctx, request{method: http.MethodPost, path: "/messaging/messages/" + escape(messageID) + "/read/"}, nil)
}
