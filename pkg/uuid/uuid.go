// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers.

It wraps google/uuid to generate Version 7 values, which sort by creation time
(millisecond precision). Message ids use it so broker-side logs line up with
the order submissions were accepted.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuidv7: failed to generate UUID: " + err.Error())
	}

	return id.String()
}

// Version reports the UUID version of s, or 0 when s is not a UUID.
func Version(s string) int {
	id, err := uuid.Parse(s)
	if err != nil {
		return 0
	}
	return int(id.Version())
}
