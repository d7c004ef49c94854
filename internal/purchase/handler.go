package purchase

import (
	"strconv"

	"furniture-admin/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SubmitRequest struct {
	ProductID uint `json:"product_id" form:"product_id"`
	Quantity  int  `json:"quantity" form:"quantity"`
}

type SubmitResponse struct {
	Success    bool            `json:"success"`
	PurchaseID uint            `json:"purchase_id"`
	Purchase   models.Purchase `json:"purchase"`
}

type StatusResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Purchase models.Purchase `json:"purchase"`
}

// POST /api/purchases
func SubmitHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SubmitRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		p, err := svc.Submit(c.UserContext(), body.ProductID, body.Quantity)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(SubmitResponse{
			Success:    true,
			PurchaseID: p.ID,
			Purchase:   p,
		})
	}
}

// GET /api/purchases?status=pending&product_id=1&limit=50
func ListHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := parseListFilter(c)
		if err != nil {
			return err
		}
		rows, err := svc.List(c.UserContext(), f)
		if err != nil {
			return err
		}
		return c.JSON(rows)
	}
}

// GET /api/purchases/:id
func GetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := purchaseID(c)
		if err != nil {
			return err
		}
		d, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(d)
	}
}

// POST /api/admin/purchases/:id/cancel
func CancelHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := purchaseID(c)
		if err != nil {
			return err
		}
		p, err := svc.Cancel(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(StatusResponse{Success: true, Message: "Purchase cancelled successfully", Purchase: p})
	}
}

// POST /api/admin/purchases/:id/confirm
func ConfirmHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := purchaseID(c)
		if err != nil {
			return err
		}
		p, err := svc.Confirm(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(StatusResponse{Success: true, Message: "Purchase confirmed", Purchase: p})
	}
}

func purchaseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid purchase id")
	}
	return uint(id), nil
}

func parseListFilter(c *fiber.Ctx) (ListFilter, error) {
	var f ListFilter
	if s := c.Query("status"); s != "" {
		f.Status = models.PurchaseStatus(s)
		if !f.Status.Valid() {
			return f, fiber.NewError(fiber.StatusBadRequest, "status must be pending, confirmed or cancelled")
		}
	}
	if s := c.Query("product_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 32)
		if err != nil || id == 0 {
			return f, fiber.NewError(fiber.StatusBadRequest, "invalid product_id")
		}
		f.ProductID = uint(id)
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return f, fiber.NewError(fiber.StatusBadRequest, "invalid limit")
		}
		f.Limit = n
	}
	return f, nil
}
