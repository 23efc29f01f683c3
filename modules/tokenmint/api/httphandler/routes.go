package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1")

	r.Get("/info", h.GetInfo)
	r.Post("/tokens/quote", h.GetFeeQuote)
	r.Post("/assets", h.PublishAsset)
	r.Post("/tokens", h.CreateToken)
	return nil
}
