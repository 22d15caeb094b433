package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hleeroa/Autoshop/internal/importer"
	"github.com/hleeroa/Autoshop/pkg/cache"
	"github.com/hleeroa/Autoshop/pkg/logger"
	"github.com/hleeroa/Autoshop/pkg/search"
	"go.uber.org/zap"
)

// maxDocumentSize caps a supplier download at 32 MiB.
const maxDocumentSize = 32 << 20

type importUseCase struct {
	repo      importer.Repository
	jobs      importer.JobStore
	publisher importer.Publisher
	cache     *cache.RedisClient
	es        *search.Client
	logger    logger.ZapLogger
	client    *http.Client
}

func NewImportUseCase(
	repo importer.Repository,
	jobs importer.JobStore,
	publisher importer.Publisher,
	cacheClient *cache.RedisClient,
	es *search.Client,
	log logger.ZapLogger,
	fetchTimeout time.Duration,
) importer.UseCase {
	return &importUseCase{
		repo:      repo,
		jobs:      jobs,
		publisher: publisher,
		cache:     cacheClient,
		es:        es,
		logger:    log,
		client:    &http.Client{Timeout: fetchTimeout},
	}
}

func (uc *importUseCase) ImportCatalog(ctx context.Context, doc *importer.Document, userID int64) (*importer.ImportResult, error) {
	plan, err := importer.BuildPlan(doc)
	if err != nil {
		return nil, err
	}

	result, err := uc.repo.Apply(ctx, userID, plan)
	if err != nil {
		return nil, err
	}

	uc.invalidateListingCache(context.Background())
	go uc.syncToElastic(context.Background(), userID)

	return result, nil
}

func (uc *importUseCase) ImportFromURL(ctx context.Context, rawURL string, userID int64) (*importer.ImportResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := uc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch price list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch price list: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read price list: %w", err)
	}

	doc, err := importer.ParseDocument(data)
	if err != nil {
		return nil, err
	}

	return uc.ImportCatalog(ctx, doc, userID)
}

func (uc *importUseCase) Dispatch(ctx context.Context, rawURL string, userID int64) (string, error) {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", &importer.ValidationError{Field: "url", Detail: "not a valid http(s) url"}
	}

	job := &importer.Job{
		ID:        uuid.New().String(),
		UserID:    userID,
		URL:       rawURL,
		Status:    importer.JobStatusPending,
		CreatedAt: time.Now(),
	}
	if err := uc.jobs.Save(ctx, job); err != nil {
		return "", fmt.Errorf("save job: %w", err)
	}

	task := importer.Task{JobID: job.ID, URL: rawURL, UserID: userID}
	payload, err := json.Marshal(task)
	if err != nil {
		return "", err
	}
	if err := uc.publisher.Publish(ctx, []byte(job.ID), payload); err != nil {
		job.Status = importer.JobStatusFailed
		job.Error = "dispatch failed"
		if saveErr := uc.jobs.Save(ctx, job); saveErr != nil {
			uc.logger.Error("failed to mark undispatched job", zap.Error(saveErr))
		}
		return "", fmt.Errorf("publish import task: %w", err)
	}

	return job.ID, nil
}

func (uc *importUseCase) JobStatus(ctx context.Context, jobID string, userID int64) (*importer.Job, error) {
	job, err := uc.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, importer.ErrJobNotFound
	}
	return job, nil
}

// Run executes a dispatched task on the worker side, recording the
// outcome on the job record.
func (uc *importUseCase) Run(ctx context.Context, task *importer.Task) {
	job, err := uc.jobs.Get(ctx, task.JobID)
	if err != nil {
		if !errors.Is(err, importer.ErrJobNotFound) {
			uc.logger.Error("failed to load import job", zap.String("job_id", task.JobID), zap.Error(err))
			return
		}
		// Expired or lost record: rebuild it so the outcome is still
		// pollable.
		job = &importer.Job{ID: task.JobID, UserID: task.UserID, URL: task.URL, CreatedAt: time.Now()}
	}

	job.Status = importer.JobStatusRunning
	if err := uc.jobs.Save(ctx, job); err != nil {
		uc.logger.Error("failed to mark job running", zap.String("job_id", job.ID), zap.Error(err))
	}

	result, err := uc.ImportFromURL(ctx, task.URL, task.UserID)
	if err != nil {
		job.Status = importer.JobStatusFailed
		job.Error = err.Error()
		uc.logger.Error("catalog import failed",
			zap.String("job_id", job.ID),
			zap.Int64("user_id", task.UserID),
			zap.Error(err),
		)
	} else {
		job.Status = importer.JobStatusSucceeded
		job.Error = ""
		job.Result = result
		uc.logger.Info("catalog import finished",
			zap.String("job_id", job.ID),
			zap.Int("categories", result.Categories),
			zap.Int("products", result.Products),
			zap.Int("parameters", result.Parameters),
		)
	}

	if err := uc.jobs.Save(ctx, job); err != nil {
		uc.logger.Error("failed to record job outcome", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (uc *importUseCase) invalidateListingCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "listings:search:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

const listingIndex = "listings"

const listingMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "long" },
			"shop_id": { "type": "long" },
			"category_id": { "type": "long" },
			"name": { "type": "text" },
			"model": { "type": "text" },
			"price": { "type": "long" },
			"price_rrc": { "type": "long" },
			"quantity": { "type": "integer" }
		}
	}
}`

func (uc *importUseCase) syncToElastic(ctx context.Context, userID int64) {
	if uc.es == nil {
		return
	}
	_ = uc.es.CreateIndex(ctx, listingIndex, listingMapping)

	docs, err := uc.repo.IndexableListings(ctx, userID)
	if err != nil {
		uc.logger.Error("failed to load listings for indexing", zap.Error(err))
		return
	}
	for _, doc := range docs {
		if err := uc.es.Index(ctx, listingIndex, fmt.Sprintf("%d", doc.ID), doc); err != nil {
			uc.logger.Error("failed to index listing", zap.Int64("listing_id", doc.ID), zap.Error(err))
			return
		}
	}
}
