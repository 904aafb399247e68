package domain

import "errors"

// ErrEntryNotFound is returned when deleting an entry that does not exist.
var ErrEntryNotFound = errors.New("journal entry not found")
