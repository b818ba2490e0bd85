package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pringinacio/ivxv/internal/config"
	"github.com/pringinacio/ivxv/internal/models"
)

// VISClient uploads statistics to the election information system.
type VISClient struct {
	url    string
	client *http.Client
}

// NewVISClient builds a client authenticating with the admin client
// certificate. An empty CA path trusts the system roots.
func NewVISClient(cfg config.VIS) (*VISClient, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if cfg.CACertPath != "" {
		pem, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("reading VIS CA certificates: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.CACertPath)
		}
		tlsConfig.RootCAs = pool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("loading VIS client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return &VISClient{
		url: cfg.URL,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		},
	}, nil
}

// PostVoterStats uploads voter statistics. VIS answers 204 on success.
func (v *VISClient) PostVoterStats(ctx context.Context, stats []byte) error {
	if v.url == "" {
		return fmt.Errorf("%w: VIS url is not set", ErrInvalidArgument)
	}
	if !json.Valid(stats) {
		return fmt.Errorf("%w: voter stats are not valid JSON", ErrInvalidArgument)
	}

	url := strings.TrimSuffix(v.url, "/") + "/voters-by-county"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(stats))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	logger(ctx).Infow("uploading voter stats", "url", url)
	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: uploading voter stats: %w", models.ErrOperationFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	logger(ctx).Infow("VIS responded to voter stats upload", "status", resp.Status)
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: VIS responded with status %s", models.ErrOperationFailed, resp.Status)
	}
	return nil
}
