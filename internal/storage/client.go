package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/constituency-office/citizen-portal/internal"
)

// UploadJob carries one object to the bucket. Result is buffered so a
// worker never blocks on a caller that gave up.
type UploadJob struct {
	ObjectKey   string
	ContentType string
	Content     []byte
	Result      chan UploadResult
}

type UploadResult struct {
	URL string
	Err error
}

type Worker struct {
	ID         int
	WorkerPool chan chan UploadJob
	JobChannel chan UploadJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan UploadJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan UploadJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(UploadJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {

			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing upload", "worker_id", w.ID, "object_key", job.ObjectKey)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Client uploads binaries to the bucket endpoint through a bounded
// worker pool and returns the public URL for the stored object.
type Client struct {
	endpoint      string
	publicBaseURL string
	bucket        string
	apiKey        string
	uploadTimeout time.Duration
	httpClient    *http.Client
	logger        *slog.Logger

	jobQueue   chan UploadJob
	workerPool chan chan UploadJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewClient(config internal.StorageConfig, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 5
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	uploadTimeout := config.UploadTimeout
	if uploadTimeout <= 0 {
		uploadTimeout = 30 * time.Second
	}

	client := &Client{
		endpoint:      strings.TrimRight(config.Endpoint, "/"),
		publicBaseURL: strings.TrimRight(config.PublicBaseURL, "/"),
		bucket:        config.Bucket,
		apiKey:        config.APIKey,
		uploadTimeout: uploadTimeout,
		httpClient:    &http.Client{Timeout: uploadTimeout},
		logger:        logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan UploadJob, jobQueueSize),
		workerPool: make(chan chan UploadJob, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	client.startWorkerPool()

	return client
}

func (c *Client) startWorkerPool() {
	c.once.Do(func() {

		for i := 0; i < c.maxWorkers; i++ {
			worker := NewWorker(i, c.workerPool, c.logger)
			worker.Start(c.ctx, &c.wg, c.processUploadJob)
		}

		c.wg.Add(1)
		go c.dispatch()

		c.logger.Info("storage upload worker pool started",
			"max_workers", c.maxWorkers,
			"queue_size", cap(c.jobQueue))
	})
}

// dispatch is counted on the wait group by startWorkerPool before it is
// spawned, so Shutdown cannot observe the group empty while it still runs.
func (c *Client) dispatch() {
	defer c.wg.Done()

	for {
		select {
		case job := <-c.jobQueue:

			select {
			case jobChannel := <-c.workerPool:

				select {
				case jobChannel <- job:

				case <-c.ctx.Done():
					c.logger.Info("upload dispatcher shutting down")
					return
				}
			case <-c.ctx.Done():
				c.logger.Info("upload dispatcher shutting down")
				return
			}
		case <-c.ctx.Done():
			c.logger.Info("upload dispatcher shutting down")
			return
		}
	}
}

func (c *Client) Shutdown() {
	c.logger.Info("shutting down storage client")
	c.cancel()
	c.wg.Wait()
	c.logger.Info("storage client shutdown complete")
}

// Upload queues the object for a pool worker and waits for the result.
// The caller's context bounds the wait, not the transfer.
func (c *Client) Upload(ctx context.Context, objectKey, contentType string, content []byte) (string, error) {
	if objectKey == "" {
		return "", fmt.Errorf("object key is required")
	}
	if len(content) == 0 {
		return "", fmt.Errorf("empty upload for object %s", objectKey)
	}

	job := UploadJob{
		ObjectKey:   objectKey,
		ContentType: contentType,
		Content:     content,
		Result:      make(chan UploadResult, 1),
	}

	select {
	case c.jobQueue <- job:
		c.logger.Debug("upload queued",
			"object_key", objectKey,
			"size_bytes", len(content),
			"queue_length", len(c.jobQueue))
	default:
		c.logger.Warn("upload queue full, rejecting object",
			"object_key", objectKey,
			"queue_capacity", cap(c.jobQueue))
		return "", fmt.Errorf("upload queue full")
	}

	select {
	case result := <-job.Result:
		return result.URL, result.Err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.ctx.Done():
		return "", fmt.Errorf("storage client shutting down")
	}
}

func (c *Client) processUploadJob(job UploadJob) {
	publicURL, err := c.putObject(job)
	if err != nil {
		c.logger.Error("object upload failed",
			"object_key", job.ObjectKey,
			"error", err)
	} else {
		c.logger.Info("object uploaded",
			"object_key", job.ObjectKey,
			"url", publicURL)
	}

	job.Result <- UploadResult{URL: publicURL, Err: err}
}

func (c *Client) putObject(job UploadJob) (string, error) {
	ctx, cancel := context.WithTimeout(c.ctx, c.uploadTimeout)
	defer cancel()

	uploadURL := fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucket, escapeKey(job.ObjectKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(job.Content))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}

	contentType := job.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("storage endpoint returned status %d", resp.StatusCode)
	}

	return c.PublicURL(job.ObjectKey), nil
}

// PublicURL builds the browser-facing URL for a stored object.
func (c *Client) PublicURL(objectKey string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicBaseURL, c.bucket, escapeKey(objectKey))
}

// escapeKey escapes each path segment while keeping the slashes that
// separate key prefixes.
func escapeKey(objectKey string) string {
	parts := strings.Split(objectKey, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
