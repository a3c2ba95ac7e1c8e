// Package idgen produces record identifiers.
package idgen

import (
	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// RecordPrefix marks experiment record identifiers.
const RecordPrefix = "EXP-"

// UUIDv7 returns a Generator of RFC 9562 version 7 UUIDs: time-ordered and
// collision resistant.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed prepends prefix to every ID produced by gen.
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Records is the default generator for new experiment records.
func Records() Generator {
	return Prefixed(RecordPrefix, UUIDv7())
}

// Sequence returns a deterministic Generator cycling through ids, for tests.
func Sequence(ids ...string) Generator {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}
