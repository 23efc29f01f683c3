package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/solmint-labs/solmint/modules/tokenmint/tokenmint"
)

type getFeeQuoteRequest struct {
	Options tokenmint.TokenOptions `json:"options"`
}

type getFeeQuoteResult struct {
	Quote   tokenmint.FeeQuote     `json:"quote"`
	Options tokenmint.TokenOptions `json:"options"`
}

type getFeeQuoteResponse = HttpResponse[getFeeQuoteResult]

// GetFeeQuote returns the service fee breakdown for a set of options,
// alongside the normalized options the fee was computed from.
func (h *HttpHandler) GetFeeQuote(ctx *fiber.Ctx) (err error) {
	var req getFeeQuoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}

	options := req.Options.Normalize()
	quote, err := h.fees.Quote(options)
	if err != nil {
		return errors.Wrap(err, "error during Quote")
	}

	resp := getFeeQuoteResponse{
		Result: &getFeeQuoteResult{
			Quote:   quote,
			Options: options,
		},
	}

	return errors.WithStack(ctx.JSON(resp))
}
