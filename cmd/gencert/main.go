// Command gencert generates a development signing key and a self-signed
// certificate carrying the CanSignHttpExchanges extension. The output is
// not trusted by browsers; it is meant for local testing against tools
// that skip chain validation.
package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"
	"time"
)

const maxCertDays = 90

var canSignHTTPExchanges = pkix.Extension{
	Id:    asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 11129, 2, 1, 22},
	Value: []byte{0x05, 0x00},
}

func main() {
	log.SetFlags(0)

	var (
		domain   = flag.String("domain", "", "domain the certificate is issued for (required)")
		days     = flag.Int("days", maxCertDays, "certificate lifetime in days (at most 90)")
		certPath = flag.String("out-cert", "cert.pem", "output path for the certificate PEM")
		keyPath  = flag.String("out-key", "privkey.pem", "output path for the private key PEM")
	)

	flag.Parse()

	if *domain == "" {
		log.Fatal("gencert: -domain is required")
	}

	if *days <= 0 || *days > maxCertDays {
		log.Fatalf("gencert: -days must be between 1 and %d", maxCertDays)
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		log.Fatalf("gencert: generate key: %v", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		log.Fatalf("gencert: generate serial: %v", err)
	}

	now := time.Now()

	tmpl := &x509.Certificate{
		SerialNumber:    serial,
		Subject:         pkix.Name{CommonName: *domain},
		DNSNames:        []string{*domain},
		NotBefore:       now,
		NotAfter:        now.Add(time.Duration(*days) * 24 * time.Hour),
		KeyUsage:        x509.KeyUsageDigitalSignature,
		ExtraExtensions: []pkix.Extension{canSignHTTPExchanges},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		log.Fatalf("gencert: create certificate: %v", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		log.Fatalf("gencert: marshal key: %v", err)
	}

	if err := writePEM(*certPath, "CERTIFICATE", certDER, 0o644); err != nil {
		log.Fatalf("gencert: %v", err)
	}

	if err := writePEM(*keyPath, "EC PRIVATE KEY", keyDER, 0o600); err != nil {
		log.Fatalf("gencert: %v", err)
	}

	fmt.Printf("wrote %s and %s for %s, valid %d days\n", *certPath, *keyPath, *domain, *days)
}

func writePEM(path, blockType string, der []byte, mode os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if err := pem.Encode(f, &pem.Block{Type: blockType, Bytes: der}); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return f.Close()
}
