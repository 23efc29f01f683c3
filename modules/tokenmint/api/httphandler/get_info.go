package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/solmint-labs/solmint/common"
)

type getInfoResult struct {
	Network common.Network `json:"network"`
	Version string         `json:"version"`

	// WalletConfigured tells the client whether POST /v1/tokens can
	// be served at all.
	WalletConfigured     bool `json:"walletConfigured"`
	PublishingConfigured bool `json:"publishingConfigured"`
}

type getInfoResponse = HttpResponse[getInfoResult]

func (h *HttpHandler) GetInfo(ctx *fiber.Ctx) (err error) {
	resp := getInfoResponse{
		Result: &getInfoResult{
			Network:              h.network,
			Version:              common.Version,
			WalletConfigured:     h.signer != nil,
			PublishingConfigured: h.publisher != nil,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
