package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

var (
	// ErrNoCertsFound is returned when a PEM bundle holds no certificate.
	ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM data")

	// ErrIncompleteKeyPair is returned when only one of cert and key is set.
	ErrIncompleteKeyPair = errors.New("tlsroots: client cert and key must be set together")
)

// Config selects the TLS material for backend connections. The zero value
// uses the system roots.
type Config struct {
	CAFile             string `koanf:"ca_file" yaml:"ca_file,omitempty" json:"ca_file,omitempty"`
	CertFile           string `koanf:"cert_file" yaml:"cert_file,omitempty" json:"cert_file,omitempty"`
	KeyFile            string `koanf:"key_file" yaml:"key_file,omitempty" json:"key_file,omitempty"`
	ServerName         string `koanf:"server_name" yaml:"server_name,omitempty" json:"server_name,omitempty"`
	InsecureSkipVerify bool   `koanf:"insecure_skip_verify" yaml:"insecure_skip_verify,omitempty" json:"insecure_skip_verify,omitempty"`
}

// IsZero reports whether c changes nothing from the defaults.
func (c Config) IsZero() bool {
	return c == Config{}
}

// Pool is a set of trusted root certificates.
type Pool struct {
	certPool *x509.CertPool
}

// NewPool starts from the system roots, or an empty pool where the system
// has none.
func NewPool() *Pool {
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	return &Pool{certPool: pool}
}

// AddCertFile adds every certificate of a PEM file.
func (p *Pool) AddCertFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("tlsroots: read CA file %s: %w", path, err)
	}
	return p.AddCertPEM(data)
}

// AddCertPEM adds every CERTIFICATE block of data.
func (p *Pool) AddCertPEM(data []byte) error {
	added := 0
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return fmt.Errorf("tlsroots: parse certificate: %w", err)
		}
		p.certPool.AddCert(cert)
		added++
	}
	if added == 0 {
		return ErrNoCertsFound
	}
	return nil
}

// Pool returns the underlying x509.CertPool.
func (p *Pool) Pool() *x509.CertPool {
	return p.certPool
}

// ClientConfig builds a client tls.Config from cfg. When a client
// certificate is configured the returned Watcher serves it; start the
// Watcher to follow rotation and Stop it when done. The Watcher is nil
// otherwise.
func ClientConfig(cfg Config, logger *slog.Logger) (*tls.Config, *Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if (cfg.CertFile == "") != (cfg.KeyFile == "") {
		return nil, nil, ErrIncompleteKeyPair
	}

	tc := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ServerName:         cfg.ServerName,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.CAFile != "" {
		pool := NewPool()
		if err := pool.AddCertFile(cfg.CAFile); err != nil {
			return nil, nil, err
		}
		tc.RootCAs = pool.Pool()
	}

	if cfg.InsecureSkipVerify {
		logger.Warn("TLS certificate verification disabled")
	}

	if cfg.CertFile == "" {
		return tc, nil, nil
	}

	w, err := NewWatcher(cfg.CertFile, cfg.KeyFile, WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	tc.GetClientCertificate = w.GetClientCertificate
	return tc, w, nil
}
