package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/minio/minio-go/v7/pkg/signer"

	"github.com/hszk-dev/vidingest/internal/domain/repository"
)

// maxErrorBody caps how much of a rejected write's response body is kept.
const maxErrorBody = 64 << 10

// unsignedPayload lets the request be signed before its body has been read.
const unsignedPayload = "UNSIGNED-PAYLOAD"

// streamer issues one signed PUT per object, with the caller's reader as
// the request body. minio-go's PutObject is not used here because it
// buffers parts in memory when the size is unknown or large.
type streamer struct {
	httpClient *http.Client
	endpoint   *url.URL
	accessKey  string
	secretKey  string
	region     string
}

func (s *streamer) put(ctx context.Context, bucket, key string, body io.Reader, contentLength int64) error {
	// The transport cannot interrupt a blocked body read on its own; closing
	// the body is what unblocks it once ctx is done.
	if c, ok := body.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { closeWithCause(c, context.Cause(ctx)) })
		defer stop()
	}

	if contentLength == 0 {
		if err := expectEmpty(body); err != nil {
			return &repository.BlobTransportError{Cause: err}
		}
		body = http.NoBody
	}

	counter := &countingReader{r: body}

	target := s.endpoint.JoinPath(bucket, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.String(), counter)
	if err != nil {
		return fmt.Errorf("failed to build put request: %w", err)
	}

	switch {
	case contentLength == 0:
		req.Body = http.NoBody
		req.ContentLength = 0
	case contentLength > 0:
		req.ContentLength = contentLength
	default:
		// Unknown length: the transport falls back to chunked encoding.
		req.ContentLength = -1
	}

	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Amz-Content-Sha256", unsignedPayload)

	// Credentials are attached to this request only.
	signed := signer.SignV4(*req, s.accessKey, s.secretKey, "", s.region)

	resp, err := s.httpClient.Do(signed)
	if err != nil {
		if contentLength >= 0 && counter.eof.Load() && counter.n.Load() != contentLength {
			err = fmt.Errorf("%w: declared %d bytes, body had %d: %w",
				repository.ErrContentLengthMismatch, contentLength, counter.n.Load(), err)
		}
		return &repository.BlobTransportError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil && len(text) == 0 {
			text = []byte("<no response body>")
		}
		return &repository.BlobWriteError{Status: resp.StatusCode, Body: string(text)}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// countingReader records how many bytes the transport pulled and whether
// the source reached EOF. The transport reads from its own goroutine.
type countingReader struct {
	r   io.Reader
	n   atomic.Int64
	eof atomic.Bool
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	if errors.Is(err, io.EOF) {
		c.eof.Store(true)
	}
	return n, err
}

// expectEmpty checks that a body declared as zero bytes really is empty.
// Go's transport would otherwise send a non-empty body chunked.
func expectEmpty(body io.Reader) error {
	var one [1]byte
	n, err := io.ReadFull(body, one[:])
	switch {
	case n > 0:
		return fmt.Errorf("%w: declared 0 bytes, body had more", repository.ErrContentLengthMismatch)
	case errors.Is(err, io.EOF):
		return nil
	default:
		return err
	}
}

func closeWithCause(c io.Closer, cause error) {
	if ec, ok := c.(interface{ CloseWithError(error) error }); ok {
		_ = ec.CloseWithError(cause)
		return
	}
	_ = c.Close()
}
