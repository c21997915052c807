package policies

import "strings"

// CamelCase converts a kebab-case handle to camelCase by replacing every
// hyphen followed by a lowercase ASCII letter with that letter uppercased.
// Anything else is copied unchanged.
func CamelCase(handle string) string {
	var b strings.Builder
	b.Grow(len(handle))
	for i := 0; i < len(handle); i++ {
		c := handle[i]
		if c == '-' && i+1 < len(handle) {
			if n := handle[i+1]; n >= 'a' && n <= 'z' {
				b.WriteByte(n - 'a' + 'A')
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// FieldFromHandle maps a route handle such as "terms-of-service" to its
// policy field. ok is false when the camelCased handle names none of the
// known fields.
func FieldFromHandle(handle string) (Field, bool) {
	switch f := Field(CamelCase(handle)); f {
	case PrivacyPolicy, ShippingPolicy, TermsOfService, RefundPolicy:
		return f, true
	default:
		return "", false
	}
}

// VariablesFor builds the Policy query variables selecting only f.
func VariablesFor(f Field, loc Locale) Variables {
	v := Variables{
		Language: loc.Language,
		Country:  loc.Country,
	}
	switch f {
	case PrivacyPolicy:
		v.PrivacyPolicy = true
	case ShippingPolicy:
		v.ShippingPolicy = true
	case TermsOfService:
		v.TermsOfService = true
	case RefundPolicy:
		v.RefundPolicy = true
	}
	return v
}
