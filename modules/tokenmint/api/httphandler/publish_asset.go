package httphandler

import (
	"io"
	"mime/multipart"

	"github.com/cockroachdb/errors"
	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"
	"github.com/solmint-labs/solmint/common/errs"
	"github.com/solmint-labs/solmint/modules/tokenmint/tokenmint"
)

const maxImageSize = 5 << 20 // 5 MiB

type publishAssetRequest struct {
	Name        string `form:"name"`
	Symbol      string `form:"symbol"`
	Description string `form:"description"`
	Creator     string `form:"creator"`
}

func (r *publishAssetRequest) Validate() error {
	var errList []error
	if r.Name == "" {
		errList = append(errList, errors.New("name is required"))
	}
	if r.Symbol == "" {
		errList = append(errList, errors.New("symbol is required"))
	}
	if _, err := solana.PublicKeyFromBase58(r.Creator); err != nil {
		errList = append(errList, errors.Errorf("creator %q is not a valid wallet address", r.Creator))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type publishAssetResponse = HttpResponse[tokenmint.PublishedAsset]

// PublishAsset pins the uploaded image and its metadata document,
// returning content URIs and gateway URLs for both.
func (h *HttpHandler) PublishAsset(ctx *fiber.Ctx) (err error) {
	if h.publisher == nil {
		return errors.Wrap(errs.WithPublicMessage(errs.PublishFailure, "asset publishing is not configured"), "publisher not configured")
	}

	var req publishAssetRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	creator, err := solana.PublicKeyFromBase58(req.Creator)
	if err != nil {
		return errors.WithStack(err)
	}

	var image []byte
	var contentType string
	if fileHeader, err := ctx.FormFile("image"); err == nil {
		image, contentType, err = readImage(fileHeader)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	asset, err := h.publisher.Publish(ctx.UserContext(), tokenmint.TokenSpecification{
		Name:             req.Name,
		Symbol:           req.Symbol,
		Description:      req.Description,
		Image:            image,
		ImageContentType: contentType,
	}, creator)
	if err != nil {
		return errors.Wrap(err, "error during Publish")
	}

	resp := publishAssetResponse{
		Result: asset,
	}

	return errors.WithStack(ctx.JSON(resp))
}

func readImage(fileHeader *multipart.FileHeader) (data []byte, contentType string, err error) {
	if fileHeader.Size > maxImageSize {
		return nil, "", errors.WithStack(errs.NewPublicError("image is too large, maximum is 5 MiB"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", errors.Wrap(err, "can't open uploaded image")
	}
	defer file.Close()
	data, err = io.ReadAll(file)
	if err != nil {
		return nil, "", errors.Wrap(err, "can't read uploaded image")
	}
	return data, fileHeader.Header.Get("Content-Type"), nil
}
