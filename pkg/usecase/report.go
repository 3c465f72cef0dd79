package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
)

type ReportUseCase struct {
	client  interfaces.ReportClient
	sink    interfaces.ReportSink
	now     func() time.Time
	reports Store[*model.Report]
}

func NewReportUseCase(client interfaces.ReportClient, sink interfaces.ReportSink, now func() time.Time) *ReportUseCase {
	if now == nil {
		now = time.Now
	}
	return &ReportUseCase{client: client, sink: sink, now: now}
}

func (uc *ReportUseCase) State() State[*model.Report] { return uc.reports.State() }

func (uc *ReportUseCase) FetchReports(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Report, error) {
	return fetchInto(ctx, &uc.reports, "failed to list reports", func(ctx context.Context) ([]*model.Report, error) {
		return uc.client.ListReports(ctx, opts...)
	})
}

func (uc *ReportUseCase) FetchReport(ctx context.Context, id model.ID) (*model.Report, error) {
	return loadCurrent(ctx, &uc.reports, "failed to get report", []goerr.Option{goerr.V(ReportIDKey, id)},
		func(ctx context.Context) (*model.Report, error) {
			return uc.client.GetReport(ctx, id)
		})
}

func (uc *ReportUseCase) CreateReport(ctx context.Context, input *model.ReportInput) (*model.Report, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return createInto(ctx, &uc.reports, "failed to create report", func(ctx context.Context) (*model.Report, error) {
		return uc.client.CreateReport(ctx, input)
	})
}

// UpdateReport only touches draft or rejected reports
func (uc *ReportUseCase) UpdateReport(ctx context.Context, id model.ID, input *model.ReportInput) (*model.Report, error) {
	current, err := uc.current(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.IsEditable() {
		return nil, goerr.Wrap(ErrReportNotEditable, "report cannot be updated",
			goerr.V(ReportIDKey, id), goerr.V(StatusKey, current.Status))
	}

	if input.ReportType == "" {
		input.ReportType = current.ReportType
	}
	if input.Title == "" {
		input.Title = current.Title
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	return updateInto(ctx, &uc.reports, "failed to update report", []goerr.Option{goerr.V(ReportIDKey, id)},
		func(ctx context.Context) (*model.Report, error) {
			return uc.client.UpdateReport(ctx, id, input)
		})
}

func (uc *ReportUseCase) SubmitReport(ctx context.Context, id model.ID) (*model.Report, error) {
	current, err := uc.current(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.IsEditable() {
		return nil, goerr.Wrap(ErrReportNotEditable, "report cannot be submitted",
			goerr.V(ReportIDKey, id), goerr.V(StatusKey, current.Status))
	}

	return updateInto(ctx, &uc.reports, "failed to submit report", []goerr.Option{goerr.V(ReportIDKey, id)},
		func(ctx context.Context) (*model.Report, error) {
			return uc.client.SubmitReport(ctx, id)
		})
}

func (uc *ReportUseCase) ApproveReport(ctx context.Context, id model.ID, comment string) (*model.Report, error) {
	if err := uc.requireSubmitted(ctx, id); err != nil {
		return nil, err
	}

	return updateInto(ctx, &uc.reports, "failed to approve report", []goerr.Option{goerr.V(ReportIDKey, id)},
		func(ctx context.Context) (*model.Report, error) {
			return uc.client.ApproveReport(ctx, id, strings.TrimSpace(comment))
		})
}

func (uc *ReportUseCase) RejectReport(ctx context.Context, id model.ID, reason string) (*model.Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, goerr.Wrap(ErrRejectionReasonRequired, "cannot reject report", goerr.V(ReportIDKey, id))
	}
	if err := uc.requireSubmitted(ctx, id); err != nil {
		return nil, err
	}

	return updateInto(ctx, &uc.reports, "failed to reject report", []goerr.Option{goerr.V(ReportIDKey, id)},
		func(ctx context.Context) (*model.Report, error) {
			return uc.client.RejectReport(ctx, id, reason)
		})
}

// ExportReport writes the report content to the configured sink and returns
// where it was stored
func (uc *ReportUseCase) ExportReport(ctx context.Context, id model.ID) (string, error) {
	if uc.sink == nil {
		return "", goerr.Wrap(ErrReportSinkNotConfigured, "cannot export report", goerr.V(ReportIDKey, id))
	}

	report, err := uc.client.GetReport(ctx, id)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get report", goerr.V(ReportIDKey, id))
	}

	data, err := report.Export(uc.now())
	if err != nil {
		return "", err
	}

	location, err := uc.sink.Put(ctx, report.ExportName(), data)
	if err != nil {
		return "", goerr.Wrap(err, "failed to store report export", goerr.V(ReportIDKey, id))
	}

	logging.From(ctx).Info("report exported", "report_id", id, "location", location)
	return location, nil
}

func (uc *ReportUseCase) requireSubmitted(ctx context.Context, id model.ID) error {
	current, err := uc.current(ctx, id)
	if err != nil {
		return err
	}
	if current.Status != types.ReportStatusSubmitted {
		return goerr.Wrap(ErrReportNotSubmitted, "report is not awaiting review",
			goerr.V(ReportIDKey, id), goerr.V(StatusKey, current.Status))
	}
	return nil
}

func (uc *ReportUseCase) current(ctx context.Context, id model.ID) (*model.Report, error) {
	r, err := lookup(ctx, &uc.reports, id, uc.client.GetReport)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get report", goerr.V(ReportIDKey, id))
	}
	return r, nil
}
