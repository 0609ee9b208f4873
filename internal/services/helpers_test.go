package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maturamate/maturamate-backend/internal/data/repos"
	"github.com/maturamate/maturamate-backend/internal/data/repos/testutil"
	"github.com/maturamate/maturamate-backend/internal/platform/apierr"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/gcp"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
	"github.com/maturamate/maturamate-backend/internal/platform/payments"
)

type testEnv struct {
	db        *gorm.DB
	log       *logger.Logger
	users     repos.UserRepo
	tokens    repos.UserTokenRepo
	prefs     repos.EmailPreferenceRepo
	content   repos.ContentRepo
	relRepo   repos.ContentRelationRepo
	sessions  repos.StudySessionRepo
	attempts  repos.SimulationAttemptRepo
	subs      repos.SubscriptionRepo
	relations RelationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	env := &testEnv{
		db:       db,
		log:      log,
		users:    repos.NewUserRepo(db, log),
		tokens:   repos.NewUserTokenRepo(db, log),
		prefs:    repos.NewEmailPreferenceRepo(db, log),
		content:  repos.NewContentRepo(db, log),
		relRepo:  repos.NewContentRelationRepo(db, log),
		sessions: repos.NewStudySessionRepo(db, log),
		attempts: repos.NewSimulationAttemptRepo(db, log),
		subs:     repos.NewSubscriptionRepo(db, log),
	}
	env.relations = NewRelationService(log, env.relRepo, nil)
	return env
}

func testDBC() dbctx.Context { return dbctx.Of(context.Background()) }

func (e *testEnv) txRunner() dbctx.TxRunner { return dbctx.NewGormTxRunner(e.db) }

func (e *testEnv) user(t *testing.T) uuid.UUID {
	t.Helper()
	return testutil.SeedUser(t, context.Background(), e.db, "u-"+uuid.NewString()+"@example.com").ID
}

func wantAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("expected api error %d/%s, got %v", status, code, err)
	}
	if ae.Status != status || (code != "" && ae.Code != code) {
		t.Fatalf("unexpected api error: status=%d code=%q want %d/%q", ae.Status, ae.Code, status, code)
	}
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fakeSigner struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *fakeSigner) SignedURL(_ context.Context, category gcp.BucketCategory, key string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "https://storage.test/" + string(category) + "/" + key + "?sig=" + uuid.NewString()[:8], nil
}

type fakeBucket struct {
	fakeSigner
	uploads map[string]int
	deleted []string
}

func newFakeBucket() *fakeBucket { return &fakeBucket{uploads: map[string]int{}} }

func (b *fakeBucket) UploadFile(_ dbctx.Context, _ gcp.BucketCategory, key string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.uploads[key] = len(data)
	return nil
}

func (b *fakeBucket) DeleteFile(_ dbctx.Context, _ gcp.BucketCategory, key string) error {
	b.deleted = append(b.deleted, key)
	return nil
}

func (b *fakeBucket) Close() error { return nil }

type fakeProvider struct {
	lastReq  payments.CheckoutRequest
	sessions int
	event    *payments.Event
	parseErr error
}

func (p *fakeProvider) CreateCheckoutSession(_ context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	p.sessions++
	p.lastReq = req
	return &payments.CheckoutSession{ID: "cs_test_" + uuid.NewString()[:8], URL: "https://checkout.stripe.test/pay"}, nil
}

func (p *fakeProvider) ParseWebhook(payload []byte, signature string) (*payments.Event, error) {
	if p.parseErr != nil {
		return nil, p.parseErr
	}
	if p.event == nil {
		return nil, errors.New("no event")
	}
	return p.event, nil
}
