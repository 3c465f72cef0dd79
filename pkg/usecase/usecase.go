package usecase

import (
	"context"
	"time"

	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/model/auth"
)

const DefaultMessagePageSize = 30

type UseCases struct {
	client interfaces.Platform
	repo   interfaces.Repository

	now             func() time.Time
	lockoutPolicy   auth.LockoutPolicy
	messagePageSize int
	reportSink      interfaces.ReportSink

	Auth         *AuthUseCase
	Case         *CaseUseCase
	Appointment  *AppointmentUseCase
	Session      *SessionUseCase
	Evaluation   *EvaluationUseCase
	Content      *ContentUseCase
	Report       *ReportUseCase
	Notification *NotificationUseCase
	Messaging    *MessagingUseCase
	Support      *SupportUseCase
}

type Option func(*UseCases)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func WithLockoutPolicy(p auth.LockoutPolicy) Option {
	return func(uc *UseCases) {
		uc.lockoutPolicy = p
	}
}

func WithMessagePageSize(n int) Option {
	return func(uc *UseCases) {
		if n > 0 {
			uc.messagePageSize = n
		}
	}
}

func WithReportSink(sink interfaces.ReportSink) Option {
	return func(uc *UseCases) {
		uc.reportSink = sink
	}
}

func New(client interfaces.Platform, repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		client:          client,
		repo:            repo,
		now:             time.Now,
		lockoutPolicy:   auth.DefaultLockoutPolicy(),
		messagePageSize: DefaultMessagePageSize,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Auth = NewAuthUseCase(client, repo, uc.lockoutPolicy, uc.now)
	uc.Case = NewCaseUseCase(client)
	uc.Appointment = NewAppointmentUseCase(client)
	uc.Session = NewSessionUseCase(client)
	uc.Evaluation = NewEvaluationUseCase(client, uc.now)
	uc.Content = NewContentUseCase(client, uc.now)
	uc.Report = NewReportUseCase(client, uc.reportSink, uc.now)
	uc.Notification = NewNotificationUseCase(client)
	uc.Messaging = NewMessagingUseCase(client, viewerFromRepository(repo), uc.messagePageSize)
	uc.Support = NewSupportUseCase(client)

	return uc
}

// viewerFromRepository resolves the signed-in supervisor's ID from the stored session
func viewerFromRepository(repo interfaces.Repository) ViewerFunc {
	return func(ctx context.Context) (model.ID, error) {
		session, err := repo.Session().Load(ctx)
		if err != nil {
			return "", err
		}
		if session == nil || session.User == nil {
			return "", nil
		}
		return session.User.ID, nil
	}
}
