package config

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const inputYAML = `
cert_url_basename: "cert"
validity_url_basename: "validity"
html_host: example.org
worker_host: sxg.example.net
reserved_path: ".sxg"
forward_request_headers:
  - "cf-IPCOUNTRY"
  - "USER-agent"
strip_request_headers: ["Forwarded"]
strip_response_headers: ["Set-Cookie", "STRICT-TRANSPORT-SECURITY"]
strip_identifying_headers: true
content_rewrite: true
validity_duration: 168h
`

func testCertPEM(t *testing.T) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "example.org"},
		DNSNames:     []string{"example.org"},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(90 * 24 * time.Hour),
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

func TestParseInput(t *testing.T) {
	in, err := ParseInput([]byte(inputYAML))
	require.NoError(t, err)

	assert.Equal(t, "example.org", in.HTMLHost)
	assert.Equal(t, "sxg.example.net", in.WorkerHost)
	assert.True(t, in.StripIdentifyingHeaders)
	assert.True(t, in.ContentRewrite)
	assert.Equal(t, Duration(168*time.Hour), in.ValidityDuration)
}

func TestParseInputInvalid(t *testing.T) {
	_, err := ParseInput([]byte("{not yaml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseInput([]byte("validity_duration: nonsense"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew(t *testing.T) {
	certPEM := testCertPEM(t)

	t.Run("materializes urls and lowercases header sets", func(t *testing.T) {
		in, err := ParseInput([]byte(inputYAML))
		require.NoError(t, err)

		cfg, err := New(in, certPEM, nil)
		require.NoError(t, err)

		assert.Equal(t, "https://sxg.example.net/.sxg/cert", cfg.CertURL)
		assert.Equal(t, "https://example.org/.sxg/validity", cfg.ValidityURL)
		assert.Equal(t, []string{"cf-ipcountry", "user-agent"}, cfg.ForwardRequestHeaders)
		assert.Equal(t, []string{"forwarded"}, cfg.StripRequestHeaders)
		assert.Equal(t, []string{"set-cookie", "strict-transport-security"}, cfg.StripResponseHeaders)
		assert.NotEmpty(t, cfg.CertDER)
		assert.Nil(t, cfg.IssuerDER)
	})

	t.Run("issuer pem resolved when present", func(t *testing.T) {
		in, err := ParseInput([]byte(inputYAML))
		require.NoError(t, err)

		cfg, err := New(in, certPEM, testCertPEM(t))
		require.NoError(t, err)

		assert.NotEmpty(t, cfg.IssuerDER)
	})

	t.Run("missing required fields", func(t *testing.T) {
		_, err := New(Input{}, certPEM, nil)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("bad certificate pem", func(t *testing.T) {
		in, err := ParseInput([]byte(inputYAML))
		require.NoError(t, err)

		_, err = New(in, []byte("not pem"), nil)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestCreateURL(t *testing.T) {
	assert.Equal(t, "https://foo.com/.sxg/cert", createURL("foo.com", ".sxg", "cert"))
	assert.Equal(t, "https://foo.com/.sxg/cert", createURL("foo.com", "/.sxg", "cert"))
	assert.Equal(t, "https://foo.com/.sxg/cert", createURL("foo.com", ".sxg/", "cert"))
	assert.Equal(t, "https://foo.com/.sxg/cert", createURL("foo.com", "/.sxg/", "cert"))
	assert.Equal(t, "https://foo.com/.sxg/cert", createURL("foo.com", "/.sxg/", "/cert"))
}

func TestPrivateKey(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	t.Run("pkcs8", func(t *testing.T) {
		der, err := x509.MarshalPKCS8PrivateKey(key)
		require.NoError(t, err)

		cfg := &Config{Input: Input{PrivateKeyBase64: base64.StdEncoding.EncodeToString(der)}}

		got, err := cfg.PrivateKey()
		require.NoError(t, err)
		assert.True(t, key.Equal(got))
	})

	t.Run("sec1", func(t *testing.T) {
		der, err := x509.MarshalECPrivateKey(key)
		require.NoError(t, err)

		cfg := &Config{Input: Input{PrivateKeyBase64: base64.StdEncoding.EncodeToString(der)}}

		got, err := cfg.PrivateKey()
		require.NoError(t, err)
		assert.True(t, key.Equal(got))
	})

	t.Run("unset", func(t *testing.T) {
		cfg := &Config{}

		_, err := cfg.PrivateKey()
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("not base64", func(t *testing.T) {
		cfg := &Config{Input: Input{PrivateKeyBase64: "!!"}}

		_, err := cfg.PrivateKey()
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestDurationYAML(t *testing.T) {
	out, err := yaml.Marshal(Duration(90 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "1h30m0s\n", string(out))

	var d Duration
	require.NoError(t, yaml.Unmarshal([]byte("2h"), &d))
	assert.Equal(t, Duration(2*time.Hour), d)
}
