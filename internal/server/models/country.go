// Package models defines server-side data models persisted in the database.
package models

// Country is the origin copy of a catalog row. Unlike the client model it
// carries the object-storage key of the flag image rather than a URL; URLs
// are minted per request because presigned links expire.
type Country struct {
	// ID is assigned by the database and changes when the catalog is replaced.
	ID int64
	// Name identifies the country across catalog replacements.
	Name     string
	Region   string
	Capital  string
	Currency string
	Language string

	// FlagKey is the object-storage key of the flag image, empty if none
	// has been uploaded.
	FlagKey string
}

// FlagUploadTask instructs an admin client to upload a flag image using a
// presigned URL.
type FlagUploadTask struct {
	// CountryID identifies the row the flag will be attached to.
	CountryID int64
	// URL is a temporary presigned HTTP URL for the client to PUT the image.
	URL string
}
