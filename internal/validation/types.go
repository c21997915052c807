package validation

// LocaleQuery is the optional ?language=&country= query of policy routes.
type LocaleQuery struct {
	Language string `form:"language" validate:"omitempty,len=2,alpha"` // ISO 639-1, e.g. "en"
	Country  string `form:"country" validate:"omitempty,len=2,alpha"`  // ISO 3166-1 alpha-2, e.g. "CA"
}
