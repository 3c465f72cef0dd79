package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model/auth"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	sessionsCollection = "sessions"
	lockoutsCollection = "lockouts"
)

// Firestore stores one profile's credentials as documents keyed by profile name.
// Lets several machines share a supervisor's session.
type Firestore struct {
	client           *firestore.Client
	profile          string
	collectionPrefix string
	session          *sessionRepository
	lockout          *lockoutRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

func WithProfile(profile string) Option {
	return func(f *Firestore) {
		if profile != "" {
			f.profile = profile
		}
	}
}

func New(ctx context.Context, projectID, databaseID string, opts []Option, clientOpts ...option.ClientOption) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:  client,
		profile: "default",
	}
	for _, opt := range opts {
		opt(f)
	}

	f.session = &sessionRepository{f: f}
	f.lockout = &lockoutRepository{f: f}
	return f, nil
}

func (f *Firestore) Session() interfaces.SessionRepository {
	return f.session
}

func (f *Firestore) Lockout() interfaces.LockoutRepository {
	return f.lockout
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *Firestore) doc(collection string) *firestore.DocumentRef {
	return f.client.Collection(f.collectionPrefix + collection).Doc(f.profile)
}

// get returns false without error when the document does not exist
func (f *Firestore) get(ctx context.Context, collection string, v any) (bool, error) {
	doc, err := f.doc(collection).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to get document from firestore",
			goerr.V("collection", collection),
			goerr.V("profile", f.profile))
	}

	if err := doc.DataTo(v); err != nil {
		return false, goerr.Wrap(err, "failed to unmarshal document",
			goerr.V("collection", collection),
			goerr.V("profile", f.profile))
	}
	return true, nil
}

func (f *Firestore) delete(ctx context.Context, collection string) error {
	if _, err := f.doc(collection).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return goerr.Wrap(err, "failed to delete document from firestore",
			goerr.V("collection", collection),
			goerr.V("profile", f.profile))
	}
	return nil
}

type sessionRepository struct {
	f *Firestore
}

func (r *sessionRepository) Load(ctx context.Context) (*auth.Session, error) {
	var s auth.Session
	found, err := r.f.get(ctx, sessionsCollection, &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *auth.Session) error {
	if err := session.Validate(); err != nil {
		return goerr.Wrap(err, "invalid session")
	}

	if _, err := r.f.doc(sessionsCollection).Set(ctx, session); err != nil {
		return goerr.Wrap(err, "failed to put session to firestore", goerr.V("profile", r.f.profile))
	}
	return nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	return r.f.delete(ctx, sessionsCollection)
}

type lockoutRepository struct {
	f *Firestore
}

func (r *lockoutRepository) Get(ctx context.Context) (*auth.Lockout, error) {
	var l auth.Lockout
	found, err := r.f.get(ctx, lockoutsCollection, &l)
	if err != nil || !found {
		return nil, err
	}
	return &l, nil
}

func (r *lockoutRepository) Put(ctx context.Context, lockout *auth.Lockout) error {
	if lockout == nil {
		return goerr.New("lockout is nil")
	}

	if _, err := r.f.doc(lockoutsCollection).Set(ctx, lockout); err != nil {
		return goerr.Wrap(err, "failed to put lockout to firestore", goerr.V("profile", r.f.profile))
	}
	return nil
}

func (r *lockoutRepository) Reset(ctx context.Context) error {
	return r.f.delete(ctx, lockoutsCollection)
}
