package models

// Admin is an operator account allowed to replace the catalog and upload
// flag images. The password itself is never stored; Salt and Verifier are
// the inputs to the constant-time check in the auth service.
type Admin struct {
	ID       string
	UserName string
	Salt     []byte
	Verifier []byte
}
