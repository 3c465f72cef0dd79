package usecase

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
)

// ContentUseCase moderates community posts. Likes and comments are applied
// optimistically and reverted when the API call fails.
type ContentUseCase struct {
	client  interfaces.CommunityClient
	now     func() time.Time
	posts   Store[*model.ContentPost]
	pending Store[*model.ContentPost]
}

func NewContentUseCase(client interfaces.CommunityClient, now func() time.Time) *ContentUseCase {
	if now == nil {
		now = time.Now
	}
	return &ContentUseCase{client: client, now: now}
}

func (uc *ContentUseCase) State() State[*model.ContentPost] { return uc.posts.State() }

func (uc *ContentUseCase) PendingState() State[*model.ContentPost] { return uc.pending.State() }

func (uc *ContentUseCase) FetchPosts(ctx context.Context, opts ...interfaces.ListOption) ([]*model.ContentPost, error) {
	return fetchInto(ctx, &uc.posts, "failed to list posts", func(ctx context.Context) ([]*model.ContentPost, error) {
		return uc.client.ListPosts(ctx, opts...)
	})
}

func (uc *ContentUseCase) FetchPendingPosts(ctx context.Context, opts ...interfaces.ListOption) ([]*model.ContentPost, error) {
	return fetchInto(ctx, &uc.pending, "failed to list pending posts", func(ctx context.Context) ([]*model.ContentPost, error) {
		return uc.client.ListPendingPosts(ctx, opts...)
	})
}

func (uc *ContentUseCase) CreatePost(ctx context.Context, input *model.PostInput) (*model.ContentPost, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return createInto(ctx, &uc.posts, "failed to create post", func(ctx context.Context) (*model.ContentPost, error) {
		return uc.client.CreatePost(ctx, input)
	})
}

// ApprovePost publishes a pending post and moves it out of the moderation queue
func (uc *ContentUseCase) ApprovePost(ctx context.Context, id model.ID) (*model.ContentPost, error) {
	post, err := uc.client.ApprovePost(ctx, id)
	if err != nil {
		err = goerr.Wrap(err, "failed to approve post", goerr.V(PostIDKey, id))
		uc.pending.fail(err)
		return nil, err
	}

	uc.pending.remove(id)
	uc.posts.upsert(post)
	return post, nil
}

// RejectPost requires a non-blank reason and refuses before any network call without one
func (uc *ContentUseCase) RejectPost(ctx context.Context, id model.ID, reason string) (*model.ContentPost, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, goerr.Wrap(ErrRejectionReasonRequired, "cannot reject post", goerr.V(PostIDKey, id))
	}

	post, err := uc.client.RejectPost(ctx, id, reason)
	if err != nil {
		err = goerr.Wrap(err, "failed to reject post", goerr.V(PostIDKey, id))
		uc.pending.fail(err)
		return nil, err
	}

	uc.pending.remove(id)
	uc.posts.upsert(post)
	return post, nil
}

// LikePost toggles the viewer's like. The counter changes immediately and is
// restored when the API call fails.
func (uc *ContentUseCase) LikePost(ctx context.Context, id model.ID) (*model.ContentPost, error) {
	toggle := func(p *model.ContentPost) *model.ContentPost {
		next := *p
		if next.LikedByMe {
			next.LikesCount = max(next.LikesCount-1, 0)
		} else {
			next.LikesCount++
		}
		next.LikedByMe = !next.LikedByMe
		return &next
	}

	before, ok := uc.posts.Find(id)
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "post is not loaded", goerr.V(PostIDKey, id))
	}
	wasLiked := before.LikedByMe

	updated, _ := uc.posts.mutate(id, toggle)

	if err := uc.client.ReactPost(ctx, id); err != nil {
		uc.posts.mutate(id, func(p *model.ContentPost) *model.ContentPost {
			if p.LikedByMe == wasLiked {
				return p
			}
			return toggle(p)
		})
		err = goerr.Wrap(err, "failed to react to post", goerr.V(PostIDKey, id))
		uc.posts.fail(err)
		return nil, err
	}
	return updated, nil
}

func (uc *ContentUseCase) FetchComments(ctx context.Context, postID model.ID) ([]model.Comment, error) {
	comments, err := uc.client.ListComments(ctx, postID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list comments", goerr.V(PostIDKey, postID))
	}

	uc.posts.mutate(postID, func(p *model.ContentPost) *model.ContentPost {
		next := *p
		next.Comments = slices.Clone(comments)
		return &next
	})
	return comments, nil
}

// AddComment appends a placeholder comment at once and swaps it for the
// server's comment, or drops it on failure
func (uc *ContentUseCase) AddComment(ctx context.Context, postID model.ID, body string) (*model.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "comment body is required", goerr.V(PostIDKey, postID))
	}

	placeholder := model.Comment{
		ID:        model.ID("pending-" + uuid.NewString()),
		Body:      body,
		CreatedAt: uc.now(),
	}
	uc.posts.mutate(postID, func(p *model.ContentPost) *model.ContentPost {
		next := *p
		next.Comments = append(slices.Clone(p.Comments), placeholder)
		return &next
	})

	comment, err := uc.client.AddComment(ctx, postID, body)

	uc.posts.mutate(postID, func(p *model.ContentPost) *model.ContentPost {
		next := *p
		next.Comments = slices.DeleteFunc(slices.Clone(p.Comments), func(c model.Comment) bool {
			return c.ID == placeholder.ID
		})
		if err == nil {
			next.Comments = append(next.Comments, *comment)
		}
		return &next
	})

	if err != nil {
		logging.From(ctx).Debug("reverted optimistic comment", "post_id", postID)
		return nil, goerr.Wrap(err, "failed to add comment", goerr.V(PostIDKey, postID))
	}
	return comment, nil
}

// PendingCount returns how many posts await moderation
func (uc *ContentUseCase) PendingCount() int {
	n := 0
	for _, p := range uc.pending.Items() {
		if p.Status == "" || p.Status == types.ContentStatusPending {
			n++
		}
	}
	return n
}
