package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"storefront-checkout/internal/common/enum"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	val     *validator.Validate
	valOnce sync.Once
)

var validationMessages = map[string]string{
	"required":         "is required",
	"url":              "must be a valid URL",
	"number":           "must be a number",
	"oneof":            "must be one of the allowed values: %s",
	"email":            "must be a valid email address",
	"min":              "must be greater than or equal to %s",
	"max":              "must be less than or equal to %s",
	"len":              "must have the exact length of %s",
	"gt":               "must be greater than %s",
	"gte":              "must be greater than or equal to %s",
	"lt":               "must be less than %s",
	"lte":              "must be less than or equal to %s",
	"iso3166_1_alpha2": "must be a two-letter country code",
	"enum":             "must be one of the allowed enum values: %s",
	"decimalPositive":  "must be a positive amount",
	"decimalNonNeg":    "must not be negative",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidations(v); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Setup prepares the package validator and registers the custom tags on gin's binding engine.
func Setup() error {
	valOnce.Do(func() { val = newValidator() })

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("failed to get validation engine")
	}
	if err := registerValidations(v); err != nil {
		return fmt.Errorf("failed to register custom validations in Gin engine: %w", err)
	}

	return nil
}

func registerValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("enum", enum.ValidateEnum); err != nil {
		return fmt.Errorf("failed to register enum validation: %w", err)
	}
	if err := v.RegisterValidation("decimalPositive", validateDecimalPositive); err != nil {
		return fmt.Errorf("failed to register decimalPositive validation: %w", err)
	}
	if err := v.RegisterValidation("decimalNonNeg", validateDecimalNonNegative); err != nil {
		return fmt.Errorf("failed to register decimalNonNeg validation: %w", err)
	}
	return nil
}

func Validate(payload interface{}) error {
	valOnce.Do(func() { val = newValidator() })

	if err := val.Struct(payload); err != nil {
		return errors.New("Validation failed: " + parsingErrorValidate(err))
	}

	return nil
}

func parsingErrorValidate(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		var sb strings.Builder
		for _, e := range errs {
			msg, ok := validationMessages[e.Tag()]
			if !ok {
				msg = "failed on " + e.Tag()
			}
			switch e.Tag() {
			case "enum":
				msg = fmt.Sprintf(msg, e.Type())
			default:
				if strings.Contains(msg, "%s") {
					msg = fmt.Sprintf(msg, e.Param())
				}
			}
			sb.WriteString(fmt.Sprintf("%s %s", e.Namespace(), msg))
			sb.WriteString(", ")
		}
		return strings.TrimSuffix(sb.String(), ", ")
	}
	return err.Error()
}
