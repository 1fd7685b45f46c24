package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/Galih-Arno/aplikasi-kasir/internal/apierror"
	"github.com/Galih-Arno/aplikasi-kasir/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQuery binds the query string and runs the validator tags, so filter
// bounds like the page-size cap are enforced at the edge.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	if err := validate.Struct(filter); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondServiceError maps the service failure taxonomy onto HTTP statuses:
// missing references → 404, bad input → 422, storage faults → 500 with a
// generic message (the cause is logged upstream, never sent to the client).
func respondServiceError(c *gin.Context, err error) {
	var refErr *service.ReferenceError
	var valErr *service.ValidationError
	var fault *service.StorageFault

	switch {
	case errors.As(err, &refErr):
		c.JSON(http.StatusNotFound, apierror.New(refErr.Error()))
	case errors.As(err, &valErr):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{valErr.Field: valErr.Reason}))
	case errors.As(err, &fault):
		_ = c.Error(fault)
		c.JSON(http.StatusInternalServerError, apierror.New("storage failure, please retry"))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
