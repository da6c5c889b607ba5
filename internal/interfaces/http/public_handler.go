package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/marketplace-pro/internal/application/dto"
	"github.com/tu-usuario/marketplace-pro/internal/application/usecase"
	"github.com/tu-usuario/marketplace-pro/internal/domain"
	"github.com/tu-usuario/marketplace-pro/internal/domain/repository"
)

// PublicHandler expone el catálogo de productos aprobados sin autenticación.
// Solo devuelve campos públicos: nada de estados, actores ni IDs internos de usuarios.
type PublicHandler struct {
	uc *usecase.ProductUseCase
}

// NewPublicHandler construye el handler del catálogo público.
func NewPublicHandler(uc *usecase.ProductUseCase) *PublicHandler {
	return &PublicHandler{uc: uc}
}

// List godoc
// @Summary      Catálogo público de productos aprobados
// @Tags         public
// @Produce      json
// @Param        search     query  string  false  "búsqueda en nombre y descripción"
// @Param        min_price  query  string  false  "precio mínimo (no numérico se ignora)"
// @Param        max_price  query  string  false  "precio máximo (no numérico se ignora)"
// @Success      200  {array}  dto.PublicProductResponse
// @Router       /api/products/public [get]
func (h *PublicHandler) List(c *fiber.Ctx) error {
	filter := repository.PublicProductFilter{
		Search:   c.Query("search"),
		MinPrice: usecase.ParsePriceFilter(c.Query("min_price")),
		MaxPrice: usecase.ParsePriceFilter(c.Query("max_price")),
	}
	out, err := h.uc.ListPublic(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle público de un producto aprobado
// @Tags         public
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.PublicProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/public/{id} [get]
func (h *PublicHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetPublicByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
