package handlers

import (
	"embed"
	"html/template"
	"strings"

	"github.com/imrishuroy/storefront-policies/internal/policies"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// policyPage is the data of policy.html.
type policyPage struct {
	Lang   string
	Title  string
	Policy *policies.Document
	// Body is the policy markup as returned by the backend. It is trusted
	// and rendered unescaped; sanitizing it is the backend's job.
	Body template.HTML
}

func newPolicyPage(brand string, loc policies.Locale, doc *policies.Document) policyPage {
	return policyPage{
		Lang:   htmlLang(loc),
		Title:  policies.PageTitle(brand, doc),
		Policy: doc,
		Body:   template.HTML(doc.Body),
	}
}

// indexPage is the data of policies.html.
type indexPage struct {
	Lang     string
	Title    string
	Policies []policies.Summary
}

func newIndexPage(brand string, loc policies.Locale, list []policies.Summary) indexPage {
	if brand == "" {
		brand = policies.DefaultBrand
	}
	return indexPage{
		Lang:     htmlLang(loc),
		Title:    brand + " | Policies",
		Policies: list,
	}
}

func htmlLang(loc policies.Locale) string {
	if loc.Language == "" {
		return "en"
	}
	return strings.ToLower(loc.Language)
}
