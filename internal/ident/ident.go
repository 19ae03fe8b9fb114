// Package ident generates entity identifiers.
package ident

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// New returns an identifier of the form "<epoch-ms>-<6 random digits>".
// Unique enough for a single local device with human-paced input; not
// cryptographic.
func New() string {
	return fmt.Sprintf("%d-%06d", time.Now().UnixMilli(), rand.IntN(1000000))
}
