package config

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConfig is returned when the input cannot be parsed or a
	// required field is missing.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrInvalidKey is returned when private key material cannot be
	// decoded.
	ErrInvalidKey = errors.New("config: invalid private key")
)

// Duration wraps time.Duration for YAML fields written as "168h" or "30m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, node.Value, err)
	}

	*d = Duration(parsed)

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Input is the source-of-truth signing configuration authored by the user
// as a YAML file.
type Input struct {
	// CertURLBasename is the file name under ReservedPath where the
	// encoded certificate chain is served.
	CertURLBasename string `yaml:"cert_url_basename"`

	// ValidityURLBasename is the file name under ReservedPath where the
	// signature validity data is served.
	ValidityURLBasename string `yaml:"validity_url_basename"`

	// HTMLHost is the origin whose content is signed.
	HTMLHost string `yaml:"html_host"`

	// WorkerHost is the host serving generated exchanges and the
	// certificate chain.
	WorkerHost string `yaml:"worker_host"`

	// ReservedPath is the path segment reserved for signed-exchange
	// artifacts on both hosts.
	ReservedPath string `yaml:"reserved_path"`

	// ForwardRequestHeaders lists request headers forwarded to the origin
	// fetch.
	ForwardRequestHeaders []string `yaml:"forward_request_headers"`

	// StripRequestHeaders lists request headers removed before the origin
	// fetch.
	StripRequestHeaders []string `yaml:"strip_request_headers"`

	// StripResponseHeaders lists response headers removed before signing,
	// in addition to the always-stripped sets.
	StripResponseHeaders []string `yaml:"strip_response_headers"`

	// StripIdentifyingHeaders enables the identifying-headers policy.
	StripIdentifyingHeaders bool `yaml:"strip_identifying_headers"`

	// IdentifyingHeaders overrides the default identifying-header set
	// when StripIdentifyingHeaders is enabled.
	IdentifyingHeaders []string `yaml:"identifying_headers"`

	// ContentRewrite enables HTML subresource rewriting before digest
	// computation.
	ContentRewrite bool `yaml:"content_rewrite"`

	// ValidityDuration is the signature freshness window. Defaults to the
	// 7-day maximum when zero.
	ValidityDuration Duration `yaml:"validity_duration"`

	// FallbackURL, when set, overrides the per-request fallback URL
	// derived from HTMLHost.
	FallbackURL string `yaml:"fallback_url"`

	// PrivateKeyBase64 is the base64 DER (PKCS#8 or SEC1) private key for
	// local signing. Mutually exclusive with SignerEndpoint.
	PrivateKeyBase64 string `yaml:"private_key_base64"`

	// SignerEndpoint is the URL of a remote signing service. Mutually
	// exclusive with PrivateKeyBase64.
	SignerEndpoint string `yaml:"signer_endpoint"`

	// RespondDebugInfo makes host adapters attach generation diagnostics
	// to their responses.
	RespondDebugInfo bool `yaml:"respond_debug_info"`
}

// Config is the materialized, immutable signing configuration: the Input
// plus attributes computed from it.
type Config struct {
	Input

	// CertDER is the DER leaf certificate.
	CertDER []byte

	// IssuerDER is the DER issuer certificate, when provided.
	IssuerDER []byte

	// CertURL is where the encoded certificate chain is served.
	CertURL string

	// ValidityURL is where signature validity data is served.
	ValidityURL string
}

// ParseInput parses YAML config input.
func ParseInput(data []byte) (Input, error) {
	var in Input
	if err := yaml.Unmarshal(data, &in); err != nil {
		return Input{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return in, nil
}

// New materializes an Input into a Config. certPEM must contain the leaf
// certificate; issuerPEM may be nil for a self-signed leaf. Header sets
// are lowercased so later lookups are case-insensitive.
func New(in Input, certPEM, issuerPEM []byte) (*Config, error) {
	switch {
	case in.HTMLHost == "":
		return nil, fmt.Errorf("%w: html_host is required", ErrInvalidConfig)
	case in.WorkerHost == "":
		return nil, fmt.Errorf("%w: worker_host is required", ErrInvalidConfig)
	case in.CertURLBasename == "":
		return nil, fmt.Errorf("%w: cert_url_basename is required", ErrInvalidConfig)
	case in.ValidityURLBasename == "":
		return nil, fmt.Errorf("%w: validity_url_basename is required", ErrInvalidConfig)
	}

	certDER, err := pemBlock(certPEM, "CERTIFICATE")
	if err != nil {
		return nil, err
	}

	var issuerDER []byte

	if issuerPEM != nil {
		issuerDER, err = pemBlock(issuerPEM, "CERTIFICATE")
		if err != nil {
			return nil, err
		}
	}

	in.ForwardRequestHeaders = lowercaseAll(in.ForwardRequestHeaders)
	in.StripRequestHeaders = lowercaseAll(in.StripRequestHeaders)
	in.StripResponseHeaders = lowercaseAll(in.StripResponseHeaders)
	in.IdentifyingHeaders = lowercaseAll(in.IdentifyingHeaders)

	return &Config{
		Input:       in,
		CertDER:     certDER,
		IssuerDER:   issuerDER,
		CertURL:     createURL(in.WorkerHost, in.ReservedPath, in.CertURLBasename),
		ValidityURL: createURL(in.HTMLHost, in.ReservedPath, in.ValidityURLBasename),
	}, nil
}

// PrivateKey decodes the configured base64 private key. Both PKCS#8 and
// SEC1 encodings are accepted.
func (c *Config) PrivateKey() (*ecdsa.PrivateKey, error) {
	if c.PrivateKeyBase64 == "" {
		return nil, fmt.Errorf("%w: private_key_base64 is not set", ErrInvalidKey)
	}

	der, err := base64.StdEncoding.DecodeString(c.PrivateKeyBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid base64", ErrInvalidKey)
	}

	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		ec, ok := key.(*ecdsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an ECDSA key", ErrInvalidKey)
		}

		return ec, nil
	}

	key, err := x509.ParseECPrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return key, nil
}

func lowercaseAll(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(n)
	}

	return out
}

// createURL joins a host, the reserved path, and a basename into an https
// URL, tolerating stray slashes in either path component.
func createURL(host, reservedPath, basename string) string {
	reservedPath = strings.Trim(reservedPath, "/")
	basename = strings.TrimPrefix(basename, "/")

	return fmt.Sprintf("https://%s/%s/%s", host, reservedPath, basename)
}

func pemBlock(data []byte, expectedType string) ([]byte, error) {
	for {
		var block *pem.Block

		block, data = pem.Decode(data)
		if block == nil {
			return nil, fmt.Errorf("%w: no %s block in PEM input", ErrInvalidConfig, expectedType)
		}

		if block.Type == expectedType {
			return block.Bytes, nil
		}
	}
}
