package firestore

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound indicates that the requested entity does not exist.
var ErrNotFound = goerr.New("not found")
