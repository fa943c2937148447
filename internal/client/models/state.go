package models

// SyncState is a snapshot of the catalog sync status delivered to observers.
// Data, Loading and Err are independent signals; a snapshot carries all
// three so subscribers never see a torn update.
type SyncState struct {
	// Data is the last successfully loaded catalog. It is replaced as a
	// whole after a successful sync and is never partially overwritten.
	Data []Country

	// Loading reports that a refresh is in flight.
	Loading bool

	// Err reports that the last refresh failed. Data keeps the previous
	// known-good value in that case.
	Err bool
}
