package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/solmint-labs/solmint/common/errs"
	"github.com/solmint-labs/solmint/modules/tokenmint/tokenmint"
)

type createTokenRequest struct {
	tokenmint.TokenSpecification

	// Image is optional base64-encoded image bytes. Clients that
	// already published assets through POST /v1/assets leave it empty.
	Image            []byte `json:"image,omitempty"`
	ImageContentType string `json:"imageContentType,omitempty"`
}

type createTokenResponse = HttpResponse[tokenmint.CreationResult]

// CreateToken mints a token with the server-side wallet as payer and
// authority holder.
func (h *HttpHandler) CreateToken(ctx *fiber.Ctx) (err error) {
	if h.signer == nil {
		return errors.Wrap(errs.WithPublicMessage(errs.WalletNotConnected, "service wallet is not configured"), "signer not configured")
	}

	var req createTokenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	spec := req.TokenSpecification
	spec.Image = req.Image
	spec.ImageContentType = req.ImageContentType
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.creator.CreateToken(ctx.UserContext(), h.signer, spec)
	if err != nil {
		return errors.Wrap(err, "error during CreateToken")
	}

	resp := createTokenResponse{
		Error:  lo.Ternary(result.Partial, lo.ToPtr("token account creation did not complete, the mint exists"), nil),
		Result: result,
	}

	return errors.WithStack(ctx.JSON(resp))
}
