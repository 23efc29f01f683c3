package httphandler

import (
	"github.com/solmint-labs/solmint/common"
	"github.com/solmint-labs/solmint/modules/tokenmint/tokenmint"
	"github.com/solmint-labs/solmint/pkg/wallet"
)

type HttpHandler struct {
	network   common.Network
	creator   *tokenmint.Creator
	publisher *tokenmint.Publisher
	fees      tokenmint.FeeConfig
	signer    wallet.Signer
}

func New(network common.Network, creator *tokenmint.Creator, publisher *tokenmint.Publisher, fees tokenmint.FeeConfig, signer wallet.Signer) *HttpHandler {
	return &HttpHandler{
		network:   network,
		creator:   creator,
		publisher: publisher,
		fees:      fees,
		signer:    signer,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}
