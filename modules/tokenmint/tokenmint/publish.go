package tokenmint

import (
	"context"
	"log/slog"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gagliardetto/solana-go"
	"github.com/solmint-labs/solmint/common/errs"
	"github.com/solmint-labs/solmint/pkg/logger"
	"github.com/solmint-labs/solmint/pkg/pinning"
)

// Pinner pins content to IPFS and resolves CIDs to gateway URLs.
type Pinner interface {
	PinFile(ctx context.Context, name string, contentType string, data []byte) (string, error)
	PinJSON(ctx context.Context, content any) (string, error)
	GatewayURL(hash string) string
}

var _ Pinner = (*pinning.Client)(nil)

// PublishedAsset holds the pinned image and metadata locations. Content
// URIs are canonical ipfs:// references, gateway URLs are resolvable
// HTTP mirrors.
type PublishedAsset struct {
	ImageURI           string `json:"imageURI,omitempty"`
	ImageGatewayURL    string `json:"imageGatewayURL,omitempty"`
	MetadataURI        string `json:"metadataURI"`
	MetadataGatewayURL string `json:"metadataGatewayURL"`
}

// offChainMetadata is the fixed NFT-style metadata document.
type offChainMetadata struct {
	Name        string             `json:"name"`
	Symbol      string             `json:"symbol"`
	Description string             `json:"description"`
	Image       string             `json:"image,omitempty"`
	Properties  metadataProperties `json:"properties"`
	Attributes  []any              `json:"attributes"`
}

type metadataProperties struct {
	Files    []metadataFile    `json:"files"`
	Category string            `json:"category"`
	Creators []metadataCreator `json:"creators"`
}

type metadataFile struct {
	URI  string `json:"uri"`
	Type string `json:"type"`
}

type metadataCreator struct {
	Address string `json:"address"`
	Share   int    `json:"share"`
}

// Publisher uploads token assets to content-addressed storage. Failures
// abort the creation attempt; no placeholder content is ever substituted.
type Publisher struct {
	pinner Pinner
}

func NewPublisher(pinner Pinner) *Publisher {
	return &Publisher{pinner: pinner}
}

// Publish pins the token image (when present) and then the metadata
// JSON document, in that order. An image pin failure aborts before the
// metadata upload is attempted.
func (p *Publisher) Publish(ctx context.Context, spec TokenSpecification, creator solana.PublicKey) (*PublishedAsset, error) {
	asset := &PublishedAsset{}
	files := make([]metadataFile, 0, 1)
	if len(spec.Image) > 0 {
		contentType := utils.Default(spec.ImageContentType, "image/png")
		imageHash, err := p.pinner.PinFile(ctx, spec.Name+"-image", contentType, spec.Image)
		if err != nil {
			return nil, errors.Wrapf(errs.WithPublicMessage(errs.PublishFailure, "can't upload token image"), "pin image: %v", err)
		}
		asset.ImageURI = pinning.URI(imageHash)
		asset.ImageGatewayURL = p.pinner.GatewayURL(imageHash)
		files = append(files, metadataFile{URI: asset.ImageGatewayURL, Type: contentType})
	}

	document := offChainMetadata{
		Name:        spec.Name,
		Symbol:      spec.Symbol,
		Description: spec.Description,
		Image:       asset.ImageGatewayURL,
		Properties: metadataProperties{
			Files:    files,
			Category: "image",
			Creators: []metadataCreator{{Address: creator.String(), Share: 100}},
		},
		Attributes: []any{},
	}
	metadataHash, err := p.pinner.PinJSON(ctx, document)
	if err != nil {
		return nil, errors.Wrapf(errs.WithPublicMessage(errs.PublishFailure, "can't upload token metadata"), "pin metadata: %v", err)
	}
	asset.MetadataURI = pinning.URI(metadataHash)
	asset.MetadataGatewayURL = p.pinner.GatewayURL(metadataHash)

	logger.DebugContext(ctx, "published token assets",
		slog.String("metadataURI", asset.MetadataURI),
		slog.String("imageURI", asset.ImageURI),
	)
	return asset, nil
}
