package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/carehouse/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Money and percentage columns are decimal(18,2) and decimal(5,2)
var (
	maxMoney   = decimal.RequireFromString("9999999999999999.99")
	maxPercent = decimal.NewFromInt(100)
)

// SetupValidator configures gin's validator: error fields use JSON names,
// decimals validate as strings and the money2/percent2 tags are registered.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	registerValidations(v)
}

func registerValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	// Registration only fails for empty tags
	_ = v.RegisterValidation("money2", validateDecimal(decimal.Zero, maxMoney))
	_ = v.RegisterValidation("percent2", validateDecimal(decimal.Zero, maxPercent))
}

// validateDecimal accepts values in [lo, hi] with at most two fractional digits
func validateDecimal(lo, hi decimal.Decimal) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		if d.LessThan(lo) || d.GreaterThan(hi) {
			return false
		}
		return d.Equal(d.Truncate(2))
	}
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	} else if err != nil {
		// Malformed JSON or a value of the wrong type
		details = append(details, dto.ValidationDetail{Field: "body", Message: err.Error()})
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError returns a validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "datetime":
		return "Must be a date in YYYY-MM-DD format"
	case "money2":
		return "Must be a non-negative amount with at most 2 decimal places"
	case "percent2":
		return "Must be a percentage between 0 and 100 with at most 2 decimal places"
	default:
		return "Invalid value"
	}
}
