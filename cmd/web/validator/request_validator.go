package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	ErrInvalidJSON    = errors.New("invalid json")
	ErrInvalidRequest = errors.New("invalid request")
)

// JSON decodes strict JSON bodies and validates them against their `validate` tags.
type JSON struct {
	MaxBytes int
	validate *validator.Validate
}

func NewJSON() *JSON {
	return &JSON{MaxBytes: 1 << 20, validate: validator.New()}
}

func (v *JSON) Decode(c *fiber.Ctx, dst any) error {
	body := c.Body()
	if len(body) > v.MaxBytes {
		return ErrInvalidJSON
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return ErrInvalidJSON
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return ErrInvalidJSON
	}
	if err := v.validate.Struct(dst); err != nil {
		return errors.Join(ErrInvalidRequest, err)
	}
	return nil
}
