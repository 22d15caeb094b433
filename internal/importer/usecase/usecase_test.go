package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hleeroa/Autoshop/internal/importer"
	"github.com/hleeroa/Autoshop/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu      sync.Mutex
	applied []*importer.Plan
	userIDs []int64
	err     error
}

func (f *fakeRepo) Apply(_ context.Context, userID int64, plan *importer.Plan) (*importer.ImportResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.applied = append(f.applied, plan)
	f.userIDs = append(f.userIDs, userID)
	return &importer.ImportResult{
		Categories: len(plan.Categories),
		Products:   len(plan.Listings),
		Parameters: plan.ParameterCount(),
	}, nil
}

func (f *fakeRepo) IndexableListings(context.Context, int64) ([]importer.IndexDoc, error) {
	return nil, nil
}

type fakeJobStore struct {
	mu   sync.Mutex
	jobs map[string]*importer.Job
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[string]*importer.Job)}
}

func (f *fakeJobStore) Save(_ context.Context, job *importer.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *job
	f.jobs[job.ID] = &copied
	return nil
}

func (f *fakeJobStore) Get(_ context.Context, id string) (*importer.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil, importer.ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages [][]byte
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, _, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, value)
	return nil
}

func testLogger() logger.ZapLogger {
	return logger.NewZapLogger(&logger.ZapLoggerConfig{
		Level:             "fatal",
		Encoding:          "console",
		DisableCaller:     true,
		DisableStacktrace: true,
	})
}

const testDocument = `
shop: TechStore
categories:
  - id: 1
    name: Phones
goods:
  - id: 100
    category: 1
    name: Phone X
    price: 50000
    quantity: 3
    parameters:
      color: black
`

func newTestUseCase(repo *fakeRepo, jobs *fakeJobStore, pub *fakePublisher) importer.UseCase {
	return NewImportUseCase(repo, jobs, pub, nil, nil, testLogger(), 5*time.Second)
}

func TestImportCatalog(t *testing.T) {
	repo := &fakeRepo{}
	uc := newTestUseCase(repo, newFakeJobStore(), &fakePublisher{})

	doc, err := importer.ParseDocument([]byte(testDocument))
	require.NoError(t, err)

	result, err := uc.ImportCatalog(context.Background(), doc, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Categories)
	assert.Equal(t, 1, result.Products)
	assert.Equal(t, 1, result.Parameters)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.Len(t, repo.applied, 1)
	assert.Equal(t, int64(7), repo.userIDs[0])
	assert.Equal(t, "TechStore", repo.applied[0].ShopName)
}

func TestImportCatalogValidationStopsBeforeRepo(t *testing.T) {
	repo := &fakeRepo{}
	uc := newTestUseCase(repo, newFakeJobStore(), &fakePublisher{})

	_, err := uc.ImportCatalog(context.Background(), &importer.Document{}, 7)
	require.Error(t, err)
	assert.Empty(t, repo.applied)
}

func TestImportFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(testDocument))
	}))
	defer srv.Close()

	repo := &fakeRepo{}
	uc := newTestUseCase(repo, newFakeJobStore(), &fakePublisher{})

	result, err := uc.ImportFromURL(context.Background(), srv.URL, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Products)
}

func TestImportFromURLBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	repo := &fakeRepo{}
	uc := newTestUseCase(repo, newFakeJobStore(), &fakePublisher{})

	_, err := uc.ImportFromURL(context.Background(), srv.URL, 7)
	require.Error(t, err)
	assert.Empty(t, repo.applied)
}

func TestDispatch(t *testing.T) {
	jobs := newFakeJobStore()
	pub := &fakePublisher{}
	uc := newTestUseCase(&fakeRepo{}, jobs, pub)

	jobID, err := uc.Dispatch(context.Background(), "https://supplier.example.com/price.yaml", 7)
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	job, err := jobs.Get(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, importer.JobStatusPending, job.Status)
	assert.Equal(t, int64(7), job.UserID)
	assert.Len(t, pub.messages, 1)
}

func TestDispatchRejectsBadURL(t *testing.T) {
	uc := newTestUseCase(&fakeRepo{}, newFakeJobStore(), &fakePublisher{})

	for _, raw := range []string{"", "not a url", "ftp://host/file.yaml", "/relative/path"} {
		_, err := uc.Dispatch(context.Background(), raw, 7)
		require.Error(t, err, "url %q", raw)

		var verr *importer.ValidationError
		assert.ErrorAs(t, err, &verr, "url %q", raw)
	}
}

func TestJobStatusHiddenFromOtherUsers(t *testing.T) {
	jobs := newFakeJobStore()
	uc := newTestUseCase(&fakeRepo{}, jobs, &fakePublisher{})

	jobID, err := uc.Dispatch(context.Background(), "https://supplier.example.com/price.yaml", 7)
	require.NoError(t, err)

	_, err = uc.JobStatus(context.Background(), jobID, 8)
	assert.ErrorIs(t, err, importer.ErrJobNotFound)

	job, err := uc.JobStatus(context.Background(), jobID, 7)
	require.NoError(t, err)
	assert.Equal(t, jobID, job.ID)
}

func TestRunRecordsOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(testDocument))
	}))
	defer srv.Close()

	jobs := newFakeJobStore()
	uc := newTestUseCase(&fakeRepo{}, jobs, &fakePublisher{})

	jobID, err := uc.Dispatch(context.Background(), srv.URL, 7)
	require.NoError(t, err)

	uc.Run(context.Background(), &importer.Task{JobID: jobID, URL: srv.URL, UserID: 7})

	job, err := jobs.Get(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, importer.JobStatusSucceeded, job.Status)
	require.NotNil(t, job.Result)
	assert.Equal(t, 1, job.Result.Products)
}

func TestRunRecordsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("shop: [unclosed"))
	}))
	defer srv.Close()

	jobs := newFakeJobStore()
	uc := newTestUseCase(&fakeRepo{}, jobs, &fakePublisher{})

	jobID, err := uc.Dispatch(context.Background(), srv.URL, 7)
	require.NoError(t, err)

	uc.Run(context.Background(), &importer.Task{JobID: jobID, URL: srv.URL, UserID: 7})

	job, err := jobs.Get(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, importer.JobStatusFailed, job.Status)
	assert.NotEmpty(t, job.Error)
	assert.Nil(t, job.Result)
}

func TestRunRebuildsExpiredJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(testDocument))
	}))
	defer srv.Close()

	jobs := newFakeJobStore()
	uc := newTestUseCase(&fakeRepo{}, jobs, &fakePublisher{})

	uc.Run(context.Background(), &importer.Task{JobID: "expired-id", URL: srv.URL, UserID: 7})

	job, err := jobs.Get(context.Background(), "expired-id")
	require.NoError(t, err)
	assert.Equal(t, importer.JobStatusSucceeded, job.Status)
	assert.Equal(t, int64(7), job.UserID)
}
