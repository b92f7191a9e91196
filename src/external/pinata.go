package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"docvault/pkg/utilities"
)

const (
	defaultPinataEndpoint = "https://api.pinata.cloud/pinning/pinFileToIPFS"
	defaultIpfsGateway    = "https://gateway.pinata.cloud"
	pinataTimeout         = 2 * time.Minute
)

type IpfsConfigJson struct {
	Endpoint  string `json:"endpoint"`
	ApiKey    string `json:"api_key"`
	SecretKey string `json:"secret_key"`
	Gateway   string `json:"gateway"`
}

type IpfsConfig struct {
	Endpoint  string
	ApiKey    string
	SecretKey string
	Gateway   string
}

func (icj IpfsConfigJson) ConvertToDomain() IpfsConfig {
	return IpfsConfig{
		Endpoint:  utilities.Ternary(icj.Endpoint == "", defaultPinataEndpoint, icj.Endpoint),
		ApiKey:    icj.ApiKey,
		SecretKey: icj.SecretKey,
		Gateway:   strings.TrimRight(utilities.Ternary(icj.Gateway == "", defaultIpfsGateway, icj.Gateway), "/"),
	}
}

// PinataStore pins files to IPFS through Pinata's pinFileToIPFS endpoint.
type PinataStore struct {
	cfg    IpfsConfig
	client *http.Client
}

type pinataResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

func NewPinataStore(cfg IpfsConfig) (*PinataStore, error) {
	if cfg.ApiKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("pinata api keys are not set")
	}
	return &PinataStore{cfg: cfg, client: &http.Client{Timeout: pinataTimeout}}, nil
}

func (ps *PinataStore) Put(ctx context.Context, name string, content []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(content); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ps.cfg.Endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("pinata_api_key", ps.cfg.ApiKey)
	req.Header.Set("pinata_secret_api_key", ps.cfg.SecretKey)

	resp, err := ps.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("pinata request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pinata responded %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var pinned pinataResponse
	if err := json.NewDecoder(resp.Body).Decode(&pinned); err != nil {
		return "", fmt.Errorf("decode pinata response: %w", err)
	}
	if pinned.IpfsHash == "" {
		return "", errors.New("pinata returned no IpfsHash")
	}
	return pinned.IpfsHash, nil
}

func (ps *PinataStore) GatewayURL(contentId string) string {
	return ps.cfg.Gateway + "/ipfs/" + contentId
}
