package policies

// Field identifies one of the shop policy fields exposed by the storefront.
type Field string

// Known policy fields. Values match the Storefront API field names.
const (
	PrivacyPolicy  Field = "privacyPolicy"
	ShippingPolicy Field = "shippingPolicy"
	TermsOfService Field = "termsOfService"
	RefundPolicy   Field = "refundPolicy"
)

// Fields lists every policy field in index order.
var Fields = []Field{PrivacyPolicy, ShippingPolicy, TermsOfService, RefundPolicy}

// Document is a shop policy as returned by the backend.
// Body is trusted HTML and is rendered without escaping.
type Document struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Body   string `json:"body"`
}

// Shop holds the optional policy documents of a query response.
// A nil entry means the backend returned nothing for that field.
type Shop struct {
	PrivacyPolicy  *Document `json:"privacyPolicy"`
	ShippingPolicy *Document `json:"shippingPolicy"`
	TermsOfService *Document `json:"termsOfService"`
	RefundPolicy   *Document `json:"refundPolicy"`
}

// Policy returns the document stored under f, or nil.
func (s *Shop) Policy(f Field) *Document {
	if s == nil {
		return nil
	}
	switch f {
	case PrivacyPolicy:
		return s.PrivacyPolicy
	case ShippingPolicy:
		return s.ShippingPolicy
	case TermsOfService:
		return s.TermsOfService
	case RefundPolicy:
		return s.RefundPolicy
	default:
		return nil
	}
}

// SetPolicy stores doc under f. Unknown fields are ignored.
func (s *Shop) SetPolicy(f Field, doc *Document) {
	switch f {
	case PrivacyPolicy:
		s.PrivacyPolicy = doc
	case ShippingPolicy:
		s.ShippingPolicy = doc
	case TermsOfService:
		s.TermsOfService = doc
	case RefundPolicy:
		s.RefundPolicy = doc
	}
}

// Locale carries the optional localization context of a request.
type Locale struct {
	Language string // e.g. "EN"
	Country  string // e.g. "CA"
}

// Variables are the query variables of the Policy query.
// Exactly one of the four flags is true.
type Variables struct {
	PrivacyPolicy  bool   `json:"privacyPolicy"`
	ShippingPolicy bool   `json:"shippingPolicy"`
	TermsOfService bool   `json:"termsOfService"`
	RefundPolicy   bool   `json:"refundPolicy"`
	Language       string `json:"language,omitempty"`
	Country        string `json:"country,omitempty"`
}

// Selected returns the field whose flag is set. ok is false unless exactly
// one flag is true.
func (v Variables) Selected() (Field, bool) {
	var (
		sel   Field
		count int
	)
	for _, f := range Fields {
		if v.Includes(f) {
			sel = f
			count++
		}
	}
	return sel, count == 1
}

// Includes reports whether the flag for f is set.
func (v Variables) Includes(f Field) bool {
	switch f {
	case PrivacyPolicy:
		return v.PrivacyPolicy
	case ShippingPolicy:
		return v.ShippingPolicy
	case TermsOfService:
		return v.TermsOfService
	case RefundPolicy:
		return v.RefundPolicy
	default:
		return false
	}
}

// Summary is an index entry.
type Summary struct {
	Field  Field
	ID     string
	Handle string
	Title  string
}
