package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}

	return uint(value), nil
}

func parseQueryUint(c *fiber.Ctx, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}

	converted := uint(value)
	return &converted, nil
}

func parseFormUint(c *fiber.Ctx, name string) (*uint, error) {
	raw := c.FormValue(name)
	if raw == "" {
		return nil, fmt.Errorf("%s is required", name)
	}

	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}

	converted := uint(value)
	return &converted, nil
}
