package tokenmint

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/shopspring/decimal"
	"github.com/solmint-labs/solmint/common/errs"
	"github.com/solmint-labs/solmint/internal/config"
	tokenmintapi "github.com/solmint-labs/solmint/modules/tokenmint/api"
	"github.com/solmint-labs/solmint/modules/tokenmint/tokenmint"
	"github.com/solmint-labs/solmint/pkg/logger"
	"github.com/solmint-labs/solmint/pkg/pinning"
	"github.com/solmint-labs/solmint/pkg/solanarpc"
	"github.com/solmint-labs/solmint/pkg/wallet"
)

// FeeConfigFrom builds the fee schedule from configuration. An empty
// receiver disables fee collection.
func FeeConfigFrom(conf config.Fees) (tokenmint.FeeConfig, error) {
	fees := tokenmint.FeeConfig{
		Base:   decimal.NewFromFloat(conf.Base),
		Option: decimal.NewFromFloat(conf.Option),
	}
	if conf.Receiver != "" {
		receiver, err := solana.PublicKeyFromBase58(conf.Receiver)
		if err != nil {
			return tokenmint.FeeConfig{}, errors.Wrapf(errs.InvalidConfiguration, "fees.receiver %q is not a valid address: %v", conf.Receiver, err)
		}
		fees.Receiver = receiver
	}
	return fees, nil
}

// New wires the token minting module and mounts its HTTP API.
func New(injector do.Injector) (*tokenmint.Creator, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	client := do.MustInvoke[solanarpc.Contract](injector)
	signer := do.MustInvoke[wallet.Signer](injector)
	pinner := do.MustInvoke[*pinning.Client](injector)

	fees, err := FeeConfigFrom(conf.Fees)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var publisher *tokenmint.Publisher
	if pinner != nil {
		publisher = tokenmint.NewPublisher(pinner)
	}
	creator := tokenmint.NewCreator(client, publisher, fees)

	httpServer := do.MustInvoke[*fiber.App](injector)
	handler := tokenmintapi.NewHTTPHandler(conf.Network, creator, publisher, fees, signer)
	if err := handler.Mount(httpServer); err != nil {
		return nil, errors.Wrap(err, "can't mount token mint API")
	}
	logger.InfoContext(ctx, "Mounted HTTP handler")

	return creator, nil
}
