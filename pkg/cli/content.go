package cli

import (
	"context"
	"fmt"

	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func printPosts(out *printer, items []*model.ContentPost) error {
	rows := make([][]string, 0, len(items))
	for _, p := range items {
		title := p.Title
		if title == "" {
			title = p.Body
		}
		rows = append(rows, []string{
			string(p.ID), string(p.ContentType), ref(p.Author), status(string(p.Status)),
			truncate(title, 40), fmt.Sprint(p.LikesCount), timestamp(p.CreatedAt),
		})
	}
	return out.Table(items, []string{"ID", "TYPE", "AUTHOR", "STATUS", "TITLE", "LIKES", "CREATED"}, rows)
}

func cmdContent(g *globalConfig) *cli.Command {
	var filter, pendingFilter listFilter
	var input model.PostInput
	var reason string

	postAction := func(op func(ctx context.Context, rt *runtime, id model.ID) (*model.ContentPost, error), verb string) cli.ActionFunc {
		return withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
			id, err := argID(c, 0, "post-id")
			if err != nil {
				return err
			}
			p, err := op(ctx, rt, id)
			if err != nil {
				return err
			}
			return rt.out.Success(p, "%s post #%s (%s)", verb, p.ID, p.Status)
		})
	}

	return &cli.Command{
		Name:  "content",
		Usage: "Community content and moderation",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List community posts",
				Flags: filter.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					items, err := rt.uc.Content.FetchPosts(ctx, filter.Options()...)
					if err != nil {
						return err
					}
					return printPosts(rt.out, applyFilter(items, &filter, func(p *model.ContentPost) string { return string(p.Status) }))
				}),
			},
			{
				Name:  "pending",
				Usage: "List posts waiting for moderation",
				Flags: pendingFilter.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					items, err := rt.uc.Content.FetchPendingPosts(ctx, pendingFilter.Options()...)
					if err != nil {
						return err
					}
					return printPosts(rt.out, applyFilter(items, &pendingFilter, func(p *model.ContentPost) string { return string(p.Status) }))
				}),
			},
			{
				Name:  "create",
				Usage: "Publish a post",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Value: "post", Usage: "post, question or media", Destination: &input.ContentType},
					&cli.StringFlag{Name: "title", Destination: &input.Title},
					&cli.StringFlag{Name: "body", Required: true, Destination: &input.Body},
				},
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					p, err := rt.uc.Content.CreatePost(ctx, &input)
					if err != nil {
						return err
					}
					return rt.out.Success(p, "Created post #%s (%s)", p.ID, p.Status)
				}),
			},
			{
				Name:      "approve",
				Usage:     "Approve a pending post",
				ArgsUsage: "<post-id>",
				Action: postAction(func(ctx context.Context, rt *runtime, id model.ID) (*model.ContentPost, error) {
					return rt.uc.Content.ApprovePost(ctx, id)
				}, "Approved"),
			},
			{
				Name:      "reject",
				Usage:     "Reject a pending post with a reason",
				ArgsUsage: "<post-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "reason", Aliases: []string{"m"}, Usage: "Shown to the author (required)", Destination: &reason},
				},
				Action: postAction(func(ctx context.Context, rt *runtime, id model.ID) (*model.ContentPost, error) {
					return rt.uc.Content.RejectPost(ctx, id, reason)
				}, "Rejected"),
			},
			{
				Name:      "like",
				Usage:     "Toggle your like on a post",
				ArgsUsage: "<post-id>",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "post-id")
					if err != nil {
						return err
					}
					// the post must be loaded before the optimistic toggle
					if _, err := rt.uc.Content.FetchPosts(ctx); err != nil {
						return err
					}
					p, err := rt.uc.Content.LikePost(ctx, id)
					if err != nil {
						return err
					}
					return rt.out.Success(p, "Post #%s has %d likes", p.ID, p.LikesCount)
				}),
			},
			{
				Name:      "comments",
				Usage:     "List the comments of a post",
				ArgsUsage: "<post-id>",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "post-id")
					if err != nil {
						return err
					}
					comments, err := rt.uc.Content.FetchComments(ctx, id)
					if err != nil {
						return err
					}
					rows := make([][]string, 0, len(comments))
					for _, cm := range comments {
						rows = append(rows, []string{timestamp(cm.CreatedAt), ref(cm.Author), truncate(cm.Body, 60)})
					}
					return rt.out.Table(comments, []string{"WHEN", "AUTHOR", "COMMENT"}, rows)
				}),
			},
			{
				Name:      "comment",
				Usage:     "Comment on a post",
				ArgsUsage: "<post-id> <text...>",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "post-id")
					if err != nil {
						return err
					}
					cm, err := rt.uc.Content.AddComment(ctx, id, restArgs(c, 1))
					if err != nil {
						return err
					}
					return rt.out.Success(cm, "Comment #%s added", cm.ID)
				}),
			},
		},
	}
}
