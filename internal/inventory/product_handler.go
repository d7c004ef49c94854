package inventory

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type RestockRequest struct {
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
}

// GET /api/products
func ListProductsHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		products, err := store.ListProductsWithStock(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(products)
	}
}

// GET /api/products/:id
func GetProductHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := productID(c)
		if err != nil {
			return err
		}

		p, err := store.GetProductWithStock(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}

// POST /api/admin/products
func CreateProductHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body NewProduct
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		p, err := store.CreateProduct(c.UserContext(), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// POST /api/admin/products/:id/restock
func RestockHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := productID(c)
		if err != nil {
			return err
		}

		var body RestockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		p, err := store.Restock(c.UserContext(), id, body.Quantity, body.Note)
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}

func productID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}
	return uint(id), nil
}
