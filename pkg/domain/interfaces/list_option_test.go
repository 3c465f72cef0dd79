package interfaces_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
)

func TestBuildListQuery(t *testing.T) {
	q := interfaces.BuildListQuery(
		interfaces.WithStatus("pending"),
		interfaces.WithSearch(""),
		interfaces.WithPageSize(20),
		interfaces.WithParam("ordering", "-created_at"),
	)

	gt.S(t, q.Get("status")).Equal("pending")
	gt.Bool(t, q.Has("search")).False()
	gt.S(t, q.Get("page_size")).Equal("20")
	gt.S(t, q.Get("ordering")).Equal("-created_at")
	gt.S(t, q.Encode()).Equal("ordering=-created_at&page_size=20&status=pending")

	gt.Number(t, len(interfaces.BuildListQuery())).Equal(0)
}
