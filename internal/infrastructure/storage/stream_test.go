package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hszk-dev/vidingest/internal/domain/repository"
)

// fakeStore records the last PUT it received.
type fakeStore struct {
	mu            sync.Mutex
	status        int
	body          string
	path          string
	payload       []byte
	contentLength int64
	header        http.Header
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)

	f.mu.Lock()
	f.path = r.URL.Path
	f.payload = data
	f.contentLength = r.ContentLength
	f.header = r.Header.Clone()
	status, body := f.status, f.body
	f.mu.Unlock()

	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func newTestStreamer(t *testing.T, handler http.Handler) (*streamer, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	endpoint, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("failed to parse server url: %v", err)
	}

	return &streamer{
		httpClient: srv.Client(),
		endpoint:   endpoint,
		accessKey:  "minioadmin",
		secretKey:  "minioadmin",
		region:     "us-east-1",
	}, srv
}

// onlyReader hides any Len/Seek methods so the transport cannot size the body.
type onlyReader struct{ r io.Reader }

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }

func TestStreamer_Put(t *testing.T) {
	large := make([]byte, 3<<20+17)
	if _, err := rand.Read(large); err != nil {
		t.Fatalf("failed to generate payload: %v", err)
	}

	tests := []struct {
		name              string
		payload           []byte
		contentLength     int64
		wantContentLength int64
	}{
		{
			name:              "declared length is forwarded verbatim",
			payload:           large,
			contentLength:     int64(len(large)),
			wantContentLength: int64(len(large)),
		},
		{
			name:              "unknown length uses chunked transfer",
			payload:           large,
			contentLength:     -1,
			wantContentLength: -1,
		},
		{
			name:              "zero bytes",
			payload:           []byte{},
			contentLength:     0,
			wantContentLength: 0,
		},
		{
			name:              "single byte",
			payload:           []byte{0x42},
			contentLength:     1,
			wantContentLength: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			s, _ := newTestStreamer(t, store)

			err := s.put(context.Background(), "bucket", "raw/clip.mp4", onlyReader{bytes.NewReader(tt.payload)}, tt.contentLength)
			if err != nil {
				t.Fatalf("put() unexpected error = %v", err)
			}

			store.mu.Lock()
			defer store.mu.Unlock()

			if store.path != "/bucket/raw/clip.mp4" {
				t.Errorf("path = %q, want /bucket/raw/clip.mp4", store.path)
			}
			if !bytes.Equal(store.payload, tt.payload) {
				t.Errorf("payload differs: got %d bytes, want %d", len(store.payload), len(tt.payload))
			}
			if store.contentLength != tt.wantContentLength {
				t.Errorf("Content-Length = %d, want %d", store.contentLength, tt.wantContentLength)
			}
		})
	}
}

func TestStreamer_Put_SignsEachRequest(t *testing.T) {
	store := &fakeStore{}
	s, _ := newTestStreamer(t, store)

	if err := s.put(context.Background(), "bucket", "clip.mp4", strings.NewReader("abc"), 3); err != nil {
		t.Fatalf("put() unexpected error = %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	auth := store.header.Get("Authorization")
	if !strings.HasPrefix(auth, "AWS4-HMAC-SHA256 ") {
		t.Errorf("Authorization = %q, want SigV4", auth)
	}
	if !strings.Contains(auth, "Credential=minioadmin/") {
		t.Errorf("Authorization = %q, want access key in credential scope", auth)
	}
	if got := store.header.Get("X-Amz-Content-Sha256"); got != unsignedPayload {
		t.Errorf("X-Amz-Content-Sha256 = %q, want %q", got, unsignedPayload)
	}
	if store.header.Get("X-Amz-Date") == "" {
		t.Error("X-Amz-Date header missing")
	}
}

func TestStreamer_Put_StoreRejection(t *testing.T) {
	store := &fakeStore{
		status: http.StatusForbidden,
		body:   "<Error><Code>AccessDenied</Code></Error>",
	}
	s, _ := newTestStreamer(t, store)

	err := s.put(context.Background(), "bucket", "clip.mp4", strings.NewReader("abc"), 3)

	var writeErr *repository.BlobWriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("put() error = %v, want *BlobWriteError", err)
	}
	if writeErr.Status != http.StatusForbidden {
		t.Errorf("Status = %d, want %d", writeErr.Status, http.StatusForbidden)
	}
	if writeErr.Body != store.body {
		t.Errorf("Body = %q, want %q", writeErr.Body, store.body)
	}
}

func TestStreamer_Put_TransportFailure(t *testing.T) {
	s, srv := newTestStreamer(t, &fakeStore{})
	srv.Close()

	err := s.put(context.Background(), "bucket", "clip.mp4", strings.NewReader("abc"), 3)

	var transportErr *repository.BlobTransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("put() error = %v, want *BlobTransportError", err)
	}
}

func TestStreamer_Put_LengthMismatch(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		contentLength   int64
		rejectedLocally bool
	}{
		{
			name:          "body shorter than declared",
			body:          "short",
			contentLength: 100,
		},
		{
			name:            "declared empty but body has bytes",
			body:            "payload",
			contentLength:   0,
			rejectedLocally: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			s, _ := newTestStreamer(t, store)

			err := s.put(context.Background(), "bucket", "clip.mp4", onlyReader{strings.NewReader(tt.body)}, tt.contentLength)

			var transportErr *repository.BlobTransportError
			if !errors.As(err, &transportErr) {
				t.Fatalf("put() error = %v, want *BlobTransportError", err)
			}
			if !errors.Is(err, repository.ErrContentLengthMismatch) {
				t.Errorf("put() error = %v, want ErrContentLengthMismatch", err)
			}

			if tt.rejectedLocally {
				store.mu.Lock()
				defer store.mu.Unlock()
				if store.path != "" {
					t.Errorf("store received a request for %q, want none", store.path)
				}
			}
		})
	}
}

func TestStreamer_Put_ContextCancel(t *testing.T) {
	received := make(chan struct{})
	s, _ := newTestStreamer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 4)
		_, _ = io.ReadFull(r.Body, buf)
		close(received)
		_, _ = io.Copy(io.Discard, r.Body)
	}))

	pr, pw := io.Pipe()
	defer pr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.put(ctx, "bucket", "clip.mp4", pr, -1)
	}()

	if _, err := pw.Write([]byte("head")); err != nil {
		t.Fatalf("failed to write head: %v", err)
	}

	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("store never received the first bytes")
	}

	cancel()

	select {
	case err := <-done:
		var transportErr *repository.BlobTransportError
		if !errors.As(err, &transportErr) {
			t.Fatalf("put() error = %v, want *BlobTransportError", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("put() did not return after cancellation")
	}
}
