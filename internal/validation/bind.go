package validation

import (
	"strings"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// BindLocale binds and validates the locale query. Codes are upper-cased.
// It writes nothing to the response; callers decide how to fall back.
func BindLocale(c *gin.Context, v *validatorv10.Validate) (LocaleQuery, error) {
	var q LocaleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return LocaleQuery{}, err
	}
	if err := v.Struct(q); err != nil {
		return LocaleQuery{}, err
	}
	q.Language = strings.ToUpper(q.Language)
	q.Country = strings.ToUpper(q.Country)
	return q, nil
}

// ErrorsToMap flattens validation errors for logging.
func ErrorsToMap(err error) map[string]string {
	out := map[string]string{}
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			out[fe.StructNamespace()] = fe.Error()
		}
	} else {
		out["error"] = err.Error()
	}
	return out
}

// codeRule matches the tags on LocaleQuery.
const codeRule = "len=2,alpha"

// ValidCode reports whether code is a two-letter language or country code.
func ValidCode(v *validatorv10.Validate, code string) bool {
	return v.Var(code, codeRule) == nil
}
