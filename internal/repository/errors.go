package repository

import "errors"

// ErrStateConflict signals that a guarded state transition found the row in a
// state that no longer permits it, e.g. a guidance request that stopped being
// pending between read and write.
var ErrStateConflict = errors.New("state conflict")

// ErrDuplicate signals a uniqueness violation, e.g. a second application by
// the same student to the same referral.
var ErrDuplicate = errors.New("duplicate record")
