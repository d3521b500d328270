package signer

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteSignerSign(t *testing.T) {
	t.Run("signs via service", func(t *testing.T) {
		var gotRequestID string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRequestID = r.Header.Get("X-Request-ID")

			var req signRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			message, err := base64.StdEncoding.DecodeString(req.Message)
			require.NoError(t, err)
			assert.Equal(t, []byte("canonical message"), message)

			json.NewEncoder(w).Encode(signResponse{
				Signature: base64.StdEncoding.EncodeToString([]byte("sigbytes")),
			})
		}))
		defer srv.Close()

		s := NewRemoteSigner(srv.URL, RemoteOptions{Client: srv.Client()})

		sig, err := s.Sign(t.Context(), []byte("canonical message"))
		require.NoError(t, err)

		assert.Equal(t, []byte("sigbytes"), sig)
		assert.NotEmpty(t, gotRequestID)
	})

	t.Run("timeout yields ErrSignerTimeout", func(t *testing.T) {
		release := make(chan struct{})

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		s := NewRemoteSigner(srv.URL, RemoteOptions{
			Client:  srv.Client(),
			Timeout: 50 * time.Millisecond,
		})

		start := time.Now()
		_, err := s.Sign(t.Context(), []byte("m"))

		assert.ErrorIs(t, err, ErrSignerTimeout)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("service error yields ErrSignerUnavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		s := NewRemoteSigner(srv.URL, RemoteOptions{Client: srv.Client()})

		_, err := s.Sign(t.Context(), []byte("m"))
		assert.ErrorIs(t, err, ErrSignerUnavailable)
	})

	t.Run("unreachable endpoint yields ErrSignerUnavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		s := NewRemoteSigner(srv.URL, RemoteOptions{})

		_, err := s.Sign(t.Context(), []byte("m"))
		assert.ErrorIs(t, err, ErrSignerUnavailable)
	})

	t.Run("non-json body yields ErrMalformedResponse", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		s := NewRemoteSigner(srv.URL, RemoteOptions{Client: srv.Client()})

		_, err := s.Sign(t.Context(), []byte("m"))
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("invalid base64 signature yields ErrMalformedResponse", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(signResponse{Signature: "!!not-base64!!"})
		}))
		defer srv.Close()

		s := NewRemoteSigner(srv.URL, RemoteOptions{Client: srv.Client()})

		_, err := s.Sign(t.Context(), []byte("m"))
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("empty signature yields ErrMalformedResponse", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(signResponse{})
		}))
		defer srv.Close()

		s := NewRemoteSigner(srv.URL, RemoteOptions{Client: srv.Client()})

		_, err := s.Sign(t.Context(), []byte("m"))
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}
