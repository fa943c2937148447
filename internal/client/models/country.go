// Package models defines client-side data models used by the GeoKeeper CLI.
package models

// Country is a single catalog row persisted in the local cache.
//
// The descriptive fields mirror the remote payload and may be empty when the
// origin has no value for them. The JSON shape matches the origin wire
// format; ID never travels over the wire.
type Country struct {
	// ID is the local cache identifier, assigned on insert. Zero until the
	// row is first persisted. IDs grow monotonically and are never reused,
	// so an ID is only meaningful within the cached generation it came from.
	ID int64 `json:"-"`

	// Name is the common name of the country.
	Name string `json:"name"`

	// Region is the continent or region grouping.
	Region string `json:"region"`

	// Capital is the capital city.
	Capital string `json:"capital"`

	// Currency is the primary currency name.
	Currency string `json:"currency"`

	// Language is the primary spoken language.
	Language string `json:"language"`

	// Flag is a URL pointing at the flag image.
	Flag string `json:"flag"`
}
