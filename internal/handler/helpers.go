package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"credipos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

// newValidator registers decimal.Decimal so min/max tags work on money
// fields: the validator sees them as float64.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// bindAndValidate binds the JSON body and runs struct validation. On failure
// it writes the 422 envelope and returns false.
func bindAndValidate(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("cuerpo de la solicitud invalido"))
		return false
	}
	if err := validate.Struct(dest); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[strings.ToLower(fe.Field())] = fe.Tag()
			}
			c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
			return false
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.New("error de validacion"))
		return false
	}
	return true
}

// parseUUIDParam reads a path parameter as UUID, responding 400 on failure.
func parseUUIDParam(c *gin.Context, nombre string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(nombre))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(nombre+" invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service errors to HTTP statuses. Stock guard
// rejections keep their structured body and go out as 409.
func respondServiceError(c *gin.Context, err error) {
	var stockErr *apierror.StockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, stockErr)
		return
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "no encontrad"):
		c.JSON(http.StatusNotFound, apierror.New(msg))
	case strings.Contains(msg, "ya fue eliminad") ||
		strings.Contains(msg, "ya esta pagada") ||
		strings.Contains(msg, "ya existe") ||
		strings.Contains(msg, "ya esta en uso"):
		c.JSON(http.StatusConflict, apierror.New(msg))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(msg))
	}
}
