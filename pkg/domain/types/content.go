package types

import "fmt"

// ContentType is the kind of community content
type ContentType string

const (
	ContentTypePost     ContentType = "post"
	ContentTypeComment  ContentType = "comment"
	ContentTypeQuestion ContentType = "question"
	ContentTypeAnswer   ContentType = "answer"
	ContentTypeMedia    ContentType = "media"
)

// IsValid checks if the content type is valid
func (c ContentType) IsValid() bool {
	switch c {
	case ContentTypePost, ContentTypeComment, ContentTypeQuestion, ContentTypeAnswer, ContentTypeMedia:
		return true
	default:
		return false
	}
}

func (c ContentType) String() string {
	return string(c)
}

// ParseContentType parses a string into a ContentType
func ParseContentType(s string) (ContentType, error) {
	c := ContentType(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid content type: %s", s)
	}
	return c, nil
}

// ContentStatus is the moderation status of community content
type ContentStatus string

const (
	ContentStatusPending  ContentStatus = "pending"
	ContentStatusApproved ContentStatus = "approved"
	ContentStatusRejected ContentStatus = "rejected"
)

// IsValid checks if the content status is valid
func (s ContentStatus) IsValid() bool {
	switch s {
	case ContentStatusPending, ContentStatusApproved, ContentStatusRejected:
		return true
	default:
		return false
	}
}

func (s ContentStatus) String() string {
	return string(s)
}
