package signer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// defaultRemoteTimeout bounds a remote signing call when no timeout is
// configured.
const defaultRemoteTimeout = 5 * time.Second

// remoteMaxResponseSize bounds how much of the signing service's reply is
// read.
const remoteMaxResponseSize = 1 << 16

// HTTPDoer is the minimal HTTP capability used to reach the signing
// service. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RemoteOptions configures a RemoteSigner.
type RemoteOptions struct {
	// Client performs the HTTP call. Defaults to http.DefaultClient.
	Client HTTPDoer

	// Timeout bounds each signing call. Defaults to 5s.
	Timeout time.Duration
}

// RemoteSigner delegates signing to an external HTTP service. The request
// body is {"message": <base64>} and the expected response is
// {"signature": <base64>}. Each call carries an X-Request-ID for
// correlation with the service's logs.
type RemoteSigner struct {
	endpoint string
	client   HTTPDoer
	timeout  time.Duration
}

// signRequest is the body sent to the signing service.
type signRequest struct {
	Message string `json:"message"`
}

// signResponse is the body returned by the signing service.
type signResponse struct {
	Signature string `json:"signature"`
}

// NewRemoteSigner creates a RemoteSigner for the given endpoint URL.
func NewRemoteSigner(endpoint string, opts RemoteOptions) *RemoteSigner {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}

	return &RemoteSigner{
		endpoint: endpoint,
		client:   client,
		timeout:  timeout,
	}
}

// Sign posts the message to the signing service and returns the decoded
// signature. A deadline overrun yields ErrSignerTimeout; any other
// transport or service failure yields ErrSignerUnavailable. Both are
// terminal for the current generation and retryable by the caller.
func (s *RemoteSigner) Sign(ctx context.Context, message []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body, err := json.Marshal(signRequest{
		Message: base64.StdEncoding.EncodeToString(message),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignerUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignerUnavailable, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrSignerTimeout, s.timeout)
		}

		return nil, fmt.Errorf("%w: %v", ErrSignerUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, remoteMaxResponseSize))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrSignerTimeout, s.timeout)
		}

		return nil, fmt.Errorf("%w: read response: %v", ErrSignerUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: service returned status %d", ErrSignerUnavailable, resp.StatusCode)
	}

	var decoded signResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	sig, err := base64.StdEncoding.DecodeString(decoded.Signature)
	if err != nil {
		return nil, fmt.Errorf("%w: signature is not valid base64", ErrMalformedResponse)
	}

	if len(sig) == 0 {
		return nil, fmt.Errorf("%w: empty signature", ErrMalformedResponse)
	}

	return sig, nil
}
