package domain

import (
	stderrors "errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/openleadr/openleadr-go/internal/pkg/errors"
)

// identifierPattern matches URL-safe object identifiers: 1 to 128 characters
// from [A-Za-z0-9_-].
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return identifierPattern.MatchString(fl.Field().String())
	})
	return v
}()

// ValidateIdentifier checks a path or reference id for the URL-safe
// identifier charset.
func ValidateIdentifier(id string) error {
	if !identifierPattern.MatchString(id) {
		return errors.InvalidRequest("invalid identifier")
	}
	return nil
}

// Validate runs struct validation over a content value and maps failures to
// InvalidRequest with the offending fields named.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.InvalidRequest("invalid request body")
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Namespace()+" failed on "+fe.Tag())
	}
	return errors.InvalidRequestf("validation failed: %s", strings.Join(fields, "; "))
}
