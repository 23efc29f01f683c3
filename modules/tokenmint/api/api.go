package api

import (
	"github.com/solmint-labs/solmint/common"
	"github.com/solmint-labs/solmint/modules/tokenmint/api/httphandler"
	"github.com/solmint-labs/solmint/modules/tokenmint/tokenmint"
	"github.com/solmint-labs/solmint/pkg/wallet"
)

func NewHTTPHandler(network common.Network, creator *tokenmint.Creator, publisher *tokenmint.Publisher, fees tokenmint.FeeConfig, signer wallet.Signer) *httphandler.HttpHandler {
	return httphandler.New(network, creator, publisher, fees, signer)
}
