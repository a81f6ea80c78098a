// Package idgen generates event identifiers. Two schemes are needed: fresh,
// non-deterministic ids for ordinary user appends (Fresh), and deterministic
// content-addressed ids for bulk genesis loads so that re-running the
// loader produces byte-identical stores (spec.md section 3, invariant I3;
// section 4.2).
package idgen

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// Fresh returns a new globally-unique identifier for a user-created event.
func Fresh() string {
	return uuid.NewString()
}

// ContentID derives a deterministic id for a bulk-loaded event from its
// logical content. index disambiguates otherwise-identical
// (base, type, value) triples within the same load (e.g. two restrictions
// with the same value attached to different fields end up at different
// indices in the source file). This mirrors the teacher's
// idgen.GenerateHashID content-hashing approach, but keyed to the exact
// recipe spec.md section 4.2 names: md5_8(base:type:value:index).
func ContentID(prefix, base, typ, value string, index int) string {
	content := fmt.Sprintf("%s:%s:%s:%d", base, typ, value, index)
	sum := md5.Sum([]byte(content))
	digest := hex.EncodeToString(sum[:])
	return fmt.Sprintf("%s_%s", prefix, digest[:8])
}
