package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/omkar-009/stockflow-inventory/internal/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct runs tag-based validation and converts failures into the
// application's ValidationError so controllers can render them uniformly.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError(err.Error())
	}

	details := make([]apperrors.ValidationDetail, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apperrors.ValidationDetail{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
		})
	}
	return apperrors.NewValidationError("validation failed", details...)
}
