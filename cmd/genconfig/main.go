// Command genconfig materializes a human-authored input config and the
// certificate PEM files into the resolved YAML artifact that signing
// deployments load at startup.
package main

import (
	"crypto/sha256"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/sxgkit/config"
)

const banner = "# Generated by genconfig. Do not edit; change the input config and regenerate.\n"

// artifact is the YAML layout of the materialized config.
type artifact struct {
	Input config.Input `yaml:"input"`

	CertURL     string `yaml:"cert_url"`
	ValidityURL string `yaml:"validity_url"`

	CertSHA256Base64 string `yaml:"cert_sha256_base64"`
	CertBase64       string `yaml:"cert_base64"`
	IssuerBase64     string `yaml:"issuer_base64,omitempty"`
}

func main() {
	log.SetFlags(0)

	var (
		inputPath  = flag.String("input", "input.yml", "path to the input config YAML")
		certPath   = flag.String("cert", "cert.pem", "path to the leaf certificate PEM")
		issuerPath = flag.String("issuer", "", "path to the issuer certificate PEM (omit for self-signed)")
		outPath    = flag.String("out", "config.yml", "output path for the materialized config")
	)

	flag.Parse()

	inputData, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("genconfig: %v", err)
	}

	in, err := config.ParseInput(inputData)
	if err != nil {
		log.Fatalf("genconfig: %v", err)
	}

	certPEM, err := os.ReadFile(*certPath)
	if err != nil {
		log.Fatalf("genconfig: %v", err)
	}

	var issuerPEM []byte

	if *issuerPath != "" {
		issuerPEM, err = os.ReadFile(*issuerPath)
		if err != nil {
			log.Fatalf("genconfig: %v", err)
		}
	}

	cfg, err := config.New(in, certPEM, issuerPEM)
	if err != nil {
		log.Fatalf("genconfig: %v", err)
	}

	certSHA256 := sha256.Sum256(cfg.CertDER)

	out := artifact{
		Input:            cfg.Input,
		CertURL:          cfg.CertURL,
		ValidityURL:      cfg.ValidityURL,
		CertSHA256Base64: base64.StdEncoding.EncodeToString(certSHA256[:]),
		CertBase64:       base64.StdEncoding.EncodeToString(cfg.CertDER),
	}

	if cfg.IssuerDER != nil {
		out.IssuerBase64 = base64.StdEncoding.EncodeToString(cfg.IssuerDER)
	}

	encoded, err := yaml.Marshal(out)
	if err != nil {
		log.Fatalf("genconfig: %v", err)
	}

	if err := os.WriteFile(*outPath, append([]byte(banner), encoded...), 0o644); err != nil {
		log.Fatalf("genconfig: %v", err)
	}

	fmt.Printf("wrote %s (cert-url %s, validity-url %s)\n", *outPath, cfg.CertURL, cfg.ValidityURL)
}
