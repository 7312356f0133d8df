package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestStorage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Storage Suite")
}

type recordedUpload struct {
	Path        string
	Method      string
	ContentType string
	AuthHeader  string
	Body        []byte
}

var _ = Describe("Storage Client", func() {
	var (
		mu       sync.Mutex
		uploads  []recordedUpload
		respCode int
		server   *httptest.Server
		client   *Client
	)

	BeforeEach(func() {
		uploads = nil
		respCode = http.StatusCreated

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			uploads = append(uploads, recordedUpload{
				Path:        r.URL.Path,
				Method:      r.Method,
				ContentType: r.Header.Get("Content-Type"),
				AuthHeader:  r.Header.Get("Authorization"),
				Body:        body,
			})
			code := respCode
			mu.Unlock()
			w.WriteHeader(code)
		}))

		client = NewClient(internal.StorageConfig{
			Endpoint:      server.URL,
			PublicBaseURL: "https://cdn.example.org",
			Bucket:        "attachments",
			APIKey:        "secret-key",
			UploadTimeout: 5 * time.Second,
			MaxWorkers:    2,
			JobQueueSize:  10,
		}, logger.NewTestLogger())
	})

	AfterEach(func() {
		client.Shutdown()
		server.Close()
	})

	Describe("Upload", func() {
		It("PUTs the object to the bucket and returns the public URL", func() {
			url, err := client.Upload(context.Background(), "req-1/photo.jpg", "image/jpeg", []byte("binary"))
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(Equal("https://cdn.example.org/attachments/req-1/photo.jpg"))

			mu.Lock()
			defer mu.Unlock()
			Expect(uploads).To(HaveLen(1))
			Expect(uploads[0].Method).To(Equal(http.MethodPut))
			Expect(uploads[0].Path).To(Equal("/attachments/req-1/photo.jpg"))
			Expect(uploads[0].ContentType).To(Equal("image/jpeg"))
			Expect(uploads[0].AuthHeader).To(Equal("Bearer secret-key"))
			Expect(uploads[0].Body).To(Equal([]byte("binary")))
		})

		It("defaults the content type for untyped uploads", func() {
			_, err := client.Upload(context.Background(), "req-1/blob", "", []byte("x"))
			Expect(err).NotTo(HaveOccurred())

			mu.Lock()
			defer mu.Unlock()
			Expect(uploads[0].ContentType).To(Equal("application/octet-stream"))
		})

		It("surfaces non-2xx responses as errors", func() {
			mu.Lock()
			respCode = http.StatusForbidden
			mu.Unlock()

			_, err := client.Upload(context.Background(), "req-1/photo.jpg", "image/jpeg", []byte("binary"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("403"))
		})

		It("rejects empty content without touching the endpoint", func() {
			_, err := client.Upload(context.Background(), "req-1/photo.jpg", "image/jpeg", nil)
			Expect(err).To(HaveOccurred())

			mu.Lock()
			defer mu.Unlock()
			Expect(uploads).To(BeEmpty())
		})

		It("escapes key segments but keeps prefix slashes", func() {
			url, err := client.Upload(context.Background(), "req-1/my photo.jpg", "image/jpeg", []byte("binary"))
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(Equal("https://cdn.example.org/attachments/req-1/my%20photo.jpg"))
		})

		It("honors the caller's context while waiting", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := client.Upload(ctx, "req-1/photo.jpg", "image/jpeg", []byte("binary"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Shutdown", func() {
		It("waits for the pool including the dispatcher, then rejects new uploads", func() {
			_, err := client.Upload(context.Background(), "req-1/photo.jpg", "image/jpeg", []byte("binary"))
			Expect(err).NotTo(HaveOccurred())

			done := make(chan struct{})
			go func() {
				client.Shutdown()
				close(done)
			}()
			Eventually(done).Should(BeClosed())

			_, err = client.Upload(context.Background(), "req-1/late.jpg", "image/jpeg", []byte("binary"))
			Expect(err).To(HaveOccurred())

			mu.Lock()
			defer mu.Unlock()
			Expect(uploads).To(HaveLen(1))
		})
	})

	Describe("PublicURL", func() {
		It("joins the base URL, bucket and key", func() {
			Expect(client.PublicURL("a/b.png")).To(Equal("https://cdn.example.org/attachments/a/b.png"))
		})
	})
})
