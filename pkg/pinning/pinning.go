package pinning

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/solmint-labs/solmint/pkg/httpclient"
	"github.com/solmint-labs/solmint/pkg/logger"
)

type Config struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	SecretAPIKey string `mapstructure:"secret_api_key"`
	Gateway      string `mapstructure:"gateway"`
}

const (
	defaultBaseURL = "https://api.pinata.cloud"
	defaultGateway = "https://gateway.pinata.cloud/ipfs/"
)

// Client pins content to IPFS through the Pinata pinning service.
type Client struct {
	httpClient *httpclient.Client
	config     Config
}

func New(config Config) (*Client, error) {
	if config.APIKey == "" || config.SecretAPIKey == "" {
		return nil, errors.New("pinning.api_key and pinning.secret_api_key configs are required")
	}
	baseURL := utils.Default(config.BaseURL, defaultBaseURL)
	config.Gateway = utils.Default(config.Gateway, defaultGateway)
	httpClient, err := httpclient.New(baseURL, httpclient.Config{
		Headers: map[string]string{
			"pinata_api_key":        config.APIKey,
			"pinata_secret_api_key": config.SecretAPIKey,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}
	return &Client{
		httpClient: httpClient,
		config:     config,
	}, nil
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinataMetadata struct {
	Name string `json:"name"`
}

type pinataOptions struct {
	CidVersion int `json:"cidVersion"`
}

// PinFile uploads raw file bytes and returns the resulting CID.
func (c *Client) PinFile(ctx context.Context, name string, contentType string, data []byte) (string, error) {
	metadata, err := json.Marshal(pinataMetadata{Name: name})
	if err != nil {
		return "", errors.Wrap(err, "can't marshal pin metadata")
	}
	options, err := json.Marshal(pinataOptions{CidVersion: 1})
	if err != nil {
		return "", errors.Wrap(err, "can't marshal pin options")
	}
	resp, err := c.httpClient.Post(ctx, "/pinning/pinFileToIPFS", httpclient.RequestOptions{
		Files: []httpclient.FormFile{{
			Field:       "file",
			Name:        name,
			ContentType: contentType,
			Data:        data,
		}},
		FormData: url.Values{
			"pinataMetadata": {string(metadata)},
			"pinataOptions":  {string(options)},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "can't send request")
	}
	if resp.StatusCode() >= 400 {
		return "", errors.Errorf("pin file failed with status %d: %s", resp.StatusCode(), resp.Body())
	}
	var result pinResponse
	if err := resp.UnmarshalBody(&result); err != nil {
		return "", errors.Wrap(err, "can't unmarshal response")
	}
	if result.IpfsHash == "" {
		return "", errors.New("pinning service returned empty hash")
	}
	logger.DebugContext(ctx, "pinned file", slog.String("name", name), slog.String("hash", result.IpfsHash), slog.Int64("size", result.PinSize))
	return result.IpfsHash, nil
}

// PinJSON uploads a JSON document and returns the resulting CID.
func (c *Client) PinJSON(ctx context.Context, content any) (string, error) {
	body, err := json.Marshal(content)
	if err != nil {
		return "", errors.Wrap(err, "can't marshal content")
	}
	resp, err := c.httpClient.Post(ctx, "/pinning/pinJSONToIPFS", httpclient.RequestOptions{
		Body: body,
	})
	if err != nil {
		return "", errors.Wrap(err, "can't send request")
	}
	if resp.StatusCode() >= 400 {
		return "", errors.Errorf("pin json failed with status %d: %s", resp.StatusCode(), resp.Body())
	}
	var result pinResponse
	if err := resp.UnmarshalBody(&result); err != nil {
		return "", errors.Wrap(err, "can't unmarshal response")
	}
	if result.IpfsHash == "" {
		return "", errors.New("pinning service returned empty hash")
	}
	logger.DebugContext(ctx, "pinned json", slog.String("hash", result.IpfsHash), slog.Int64("size", result.PinSize))
	return result.IpfsHash, nil
}

// GatewayURL resolves a CID to an HTTP URL on the configured gateway.
func (c *Client) GatewayURL(hash string) string {
	return c.config.Gateway + hash
}
