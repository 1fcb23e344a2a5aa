package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rackledger/inventory/internal/core/domain"
)

const maxBodyBytes = 1 << 20

func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable body", domain.ErrValidation)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: body too large", domain.ErrValidation)
	}
	return body, nil
}

// bindStrict decodes a JSON body into dst, rejecting unknown fields, and
// runs the echo validator on it.
func bindStrict(c echo.Context, dst any) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, describeDecodeError(err))
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON object", domain.ErrValidation)
	}
	return c.Validate(dst)
}

func describeDecodeError(err error) string {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return fmt.Sprintf("%s must be of type %s", te.Field, te.Type)
	}
	if errors.Is(err, io.EOF) {
		return "body must be a JSON object"
	}
	return strings.TrimPrefix(err.Error(), "json: ")
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", domain.ErrValidation, c.Param("id"))
	}
	return uint(id), nil
}

// jsonName reports struct fields by their JSON name in validation messages.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
