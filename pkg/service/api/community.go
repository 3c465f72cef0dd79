package api

import (
	"context"
	"net/http"

	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

func (c *Client) ListPosts(ctx context.Context, opts ...interfaces.ListOption) ([]*model.ContentPost, error) {
	return list[*model.ContentPost](ctx, c, "/community/posts/", interfaces.BuildListQuery(opts...))
}

func (c *Client) ListPendingPosts(ctx context.Context, opts ...interfaces.ListOption) ([]*model.ContentPost, error) {
	return list[*model.ContentPost](ctx, c, "/community/posts/pending/", interfaces.BuildListQuery(opts...))
}

func (c *Client) CreatePost(ctx context.Context, input *model.PostInput) (*model.ContentPost, error) {
	return doJSON[model.ContentPost](ctx, c, http.MethodPost, "/community/posts/", input)
}

func (c *Client) ApprovePost(ctx context.Context, id model.ID) (*model.ContentPost, error) {
	return doJSON[model.ContentPost](ctx, c, http.MethodPost, postPath(id, "approve"), nil)
}

func (c *Client) RejectPost(ctx context.Context, id model.ID, reason string) (*model.ContentPost, error) {
	return doJSON[model.ContentPost](ctx, c, http.MethodPost, postPath(id, "reject"), map[string]string{"reason": reason})
}

func (c *Client) ReactPost(ctx context.Context, id model.ID) error {
	return c.call(ctx, request{
		method: http.MethodPost,
		path:   postPath(id, "react"),
		body:   map[string]string{"reaction": "like"},
	}, nil)
}

func (c *Client) ListComments(ctx context.Context, postID model.ID) ([]model.Comment, error) {
	return list[model.Comment](ctx, c, postPath(postID, "comments"), nil)
}

func (c *Client) AddComment(ctx context.Context, postID model.ID, body string) (*model.Comment, error) {
	return doJSON[model.Comment](ctx, c, http.MethodPost, postPath(postID, "comments"), map[string]string{"body": body})
}

func postPath(id model.ID, action string) string {
	return "/community/posts/" + escape(id) + "/" + action + "/"
}
