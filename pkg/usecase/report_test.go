package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/preceptor-dev/preceptor/pkg/domain/mock"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
	"github.com/preceptor-dev/preceptor/pkg/repository/memory"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
)

func reportClient(status types.ReportStatus) *mock.PlatformMock {
	return &mock.PlatformMock{
		GetReportFunc: func(ctx context.Context, id model.ID) (*model.Report, error) {
			return &model.Report{
				ID:         id,
				ReportType: "case_summary",
				Title:      "Quarterly review",
				Status:     status,
				Content:    json.RawMessage(`{"sections":[{"heading":"Progress"}]}`),
			}, nil
		},
		RejectReportFunc: func(ctx context.Context, id model.ID, reason string) (*model.Report, error) {
			return &model.Report{ID: id, Status: types.ReportStatusRejected, ReviewComment: reason}, nil
		},
		UpdateReportFunc: func(ctx context.Context, id model.ID, input *model.ReportInput) (*model.Report, error) {
			return &model.Report{ID: id, Status: types.ReportStatusDraft, Title: input.Title, ReportType: input.ReportType}, nil
		},
	}
}

func TestUpdateLockedReportIsRefused(t *testing.T) {
	ctx := context.Background()
	client := reportClient(types.ReportStatusLocked)
	uc := usecase.New(client, memory.New())

	_, err := uc.Report.UpdateReport(ctx, "3", &model.ReportInput{Description: "new"})
	gt.Error(t, err).Is(usecase.ErrReportNotEditable)
	gt.Number(t, client.Calls("UpdateReport")).Equal(0)
}

func TestUpdateDraftReportKeepsTitle(t *testing.T) {
	ctx := context.Background()
	client := reportClient(types.ReportStatusDraft)
	uc := usecase.New(client, memory.New())

	r, err := uc.Report.UpdateReport(ctx, "3", &model.ReportInput{Description: "new"})
	gt.NoError(t, err).Required()
	gt.S(t, r.Title).Equal("Quarterly review")
	gt.S(t, r.ReportType).Equal("case_summary")
}

func TestRejectReport(t *testing.T) {
	ctx := context.Background()

	t.Run("reason is required", func(t *testing.T) {
		client := reportClient(types.ReportStatusSubmitted)
		uc := usecase.New(client, memory.New())

		_, err := uc.Report.RejectReport(ctx, "3", "")
		gt.Error(t, err).Is(usecase.ErrRejectionReasonRequired)
		gt.Number(t, client.TotalCalls()).Equal(0)
	})

	t.Run("only submitted reports", func(t *testing.T) {
		client := reportClient(types.ReportStatusDraft)
		uc := usecase.New(client, memory.New())

		_, err := uc.Report.RejectReport(ctx, "3", "missing signatures")
		gt.Error(t, err).Is(usecase.ErrReportNotSubmitted)
		gt.Number(t, client.Calls("RejectReport")).Equal(0)
	})

	t.Run("submitted report is rejected", func(t *testing.T) {
		client := reportClient(types.ReportStatusSubmitted)
		uc := usecase.New(client, memory.New())

		r, err := uc.Report.RejectReport(ctx, "3", "missing signatures")
		gt.NoError(t, err).Required()
		gt.S(t, r.ReviewComment).Equal("missing signatures")
	})
}

func TestExportReport(t *testing.T) {
	ctx := context.Background()

	t.Run("without sink", func(t *testing.T) {
		uc := usecase.New(reportClient(types.ReportStatusApproved), memory.New())
		_, err := uc.Report.ExportReport(ctx, "3")
		gt.Error(t, err).Is(usecase.ErrReportSinkNotConfigured)
	})

	t.Run("writes the document", func(t *testing.T) {
		sink := &mock.ReportSinkMock{}
		uc := usecase.New(reportClient(types.ReportStatusApproved), memory.New(), usecase.WithReportSink(sink))

		location, err := uc.Report.ExportReport(ctx, "3")
		gt.NoError(t, err).Required()
		gt.S(t, location).Equal("mem://report-3.json")

		data, ok := sink.Get("report-3.json")
		gt.Bool(t, ok).True().Required()

		var doc struct {
			ID      model.ID        `json:"id"`
			Content json.RawMessage `json:"content"`
		}
		gt.NoError(t, json.Unmarshal(data, &doc)).Required()
		gt.Value(t, doc.ID).Equal(model.ID("3"))
		gt.S(t, string(doc.Content)).Contains("Progress")
	})
}
