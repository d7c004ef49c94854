package audit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GET /api/admin/audit-logs?entity_type=purchase&entity_id=1&user_id=1&limit=50
func ListAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f ListFilter
		f.EntityType = c.Query("entity_type")

		var err error
		if f.EntityID, err = parseUintQuery(c, "entity_id"); err != nil {
			return err
		}
		if f.UserID, err = parseUintQuery(c, "user_id"); err != nil {
			return err
		}
		if s := c.Query("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
			}
			f.Limit = n
		}

		logs, err := List(c.UserContext(), db, f)
		if err != nil {
			return err
		}
		return c.JSON(logs)
	}
}

func parseUintQuery(c *fiber.Ctx, key string) (uint, error) {
	s := c.Query(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+key)
	}
	return uint(n), nil
}
