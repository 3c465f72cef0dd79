package model

import (
	"time"

	"github.com/preceptor-dev/preceptor/pkg/domain/types"
)

// ContentPost is a community post subject to moderation
type ContentPost struct {
	ID              ID                  `json:"id"`
	Author          *UserRef            `json:"author,omitempty"`
	ContentType     types.ContentType   `json:"content_type"`
	Title           string              `json:"title,omitempty"`
	Body            string              `json:"body"`
	Status          types.ContentStatus `json:"status"`
	LikesCount      int                 `json:"likes_count"`
	LikedByMe       bool                `json:"liked_by_me"`
	Comments        []Comment           `json:"comments,omitempty"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// Comment belongs to a ContentPost
type Comment struct {
	ID        ID        `json:"id"`
	Author    *UserRef  `json:"author,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *ContentPost) GetID() ID { return p.ID }

func (p *ContentPost) SearchFields() []string {
	fields := []string{p.Title, p.Body, string(p.ContentType), string(p.Status)}
	if p.Author != nil {
		fields = append(fields, p.Author.Display())
	}
	return fields
}
