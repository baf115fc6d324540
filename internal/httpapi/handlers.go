package httpapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "linkcut/internal/logger"
	"linkcut/internal/models"
	"linkcut/internal/registry"
)

type Handler struct {
	registry *registry.Registry
	baseURL  string
}

func NewHandler(reg *registry.Registry, baseURL string) *Handler {
	return &Handler{
		registry: reg,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

type createLinkRequest struct {
	Destination string `json:"destination"`
	Code        string `json:"code"`
}

type linkResponse struct {
	models.Link
	ShortURL string `json:"short_url"`
}

func (h *Handler) toResponse(link *models.Link) linkResponse {
	return linkResponse{
		Link:     *link,
		ShortURL: h.baseURL + "/" + link.Code,
	}
}

func (h *Handler) CreateLink(c *fiber.Ctx) error {
	var req createLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Destination == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "destination is required"})
	}

	link, err := h.registry.Allocate(c.UserContext(), req.Destination, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, registry.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "code already in use"})
		default:
			applog.FromContext(c.UserContext()).Error("allocate failed", "err", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not create link"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(h.toResponse(link))
}

// Redirect resolves a code and issues the 302. The visit is recorded by the
// registry regardless of whether the client follows the redirect.
func (h *Handler) Redirect(c *fiber.Ctx) error {
	code := c.Params("code")

	link, err := h.registry.Resolve(c.UserContext(), code)
	if err != nil {
		// Malformed codes can never match a record: same 404 as absent ones.
		if errors.Is(err, registry.ErrNotFound) || errors.Is(err, registry.ErrInvalidInput) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "short link not found"})
		}
		applog.FromContext(c.UserContext()).Error("resolve failed", "code", code, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not resolve link"})
	}

	return c.Redirect(link.Destination, fiber.StatusFound)
}

func (h *Handler) ListLinks(c *fiber.Ctx) error {
	links, err := h.registry.List(c.UserContext())
	if err != nil {
		applog.FromContext(c.UserContext()).Error("list failed", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not list links"})
	}

	out := make([]linkResponse, 0, len(links))
	for i := range links {
		out = append(out, h.toResponse(&links[i]))
	}
	return c.JSON(out)
}

func (h *Handler) DeleteLink(c *fiber.Ctx) error {
	code := c.Params("code")

	if err := h.registry.Delete(c.UserContext(), code); err != nil {
		if errors.Is(err, registry.ErrNotFound) || errors.Is(err, registry.ErrInvalidInput) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "short link not found"})
		}
		applog.FromContext(c.UserContext()).Error("delete failed", "code", code, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not delete link"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
