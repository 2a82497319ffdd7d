// Package hash provides the content-addressing primitives shared by every
// FlowScript IR entity: a canonical, deterministic SHA-256 digest used as a
// node/relationship/state id, and a cheap fingerprint used only to bucket
// dedup candidates before paying for the canonical digest.
package hash

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/minio/highwayhash"
)

// fingerprintKey is a fixed, non-secret key: Fingerprint is a dedup
// accelerator, not a security boundary.
var fingerprintKey = []byte("FlowScript-Fingerprint-Key-00000")

// Canonical serializes v as JSON with object keys in ascending order and no
// insignificant whitespace, then returns the lowercase hex SHA-256 digest of
// the UTF-8 bytes. It never fails: any value that round-trips through
// encoding/json's generic decoder can be canonicalized.
func Canonical(v interface{}) string {
	b, err := sortedJSON(v)
	if err != nil {
		// Canonical must never fail per the hasher's contract; a value that
		// cannot be represented as JSON is a programmer error, not a runtime
		// condition callers need to recover from.
		panic(fmt.Sprintf("hash: value is not JSON-representable: %v", err))
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Fingerprint returns a fast, non-cryptographic HighwayHash digest of the
// same canonical encoding Canonical uses. It is used only to key an
// in-memory dedup bucket during parsing; it is never part of an id.
func Fingerprint(v interface{}) uint64 {
	b, err := sortedJSON(v)
	if err != nil {
		panic(fmt.Sprintf("hash: value is not JSON-representable: %v", err))
	}
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		panic(err)
	}
	_, _ = h.Write(b)
	return h.Sum64()
}

// sortedJSON marshals v through encoding/json, then re-walks the generic
// representation so that every object emits its keys in ascending order.
// encoding/json's own map-key ordering already sorts string-keyed maps, but
// struct fields marshal in declaration order; canonicalization must be
// independent of how v happened to be typed, so the walk always re-sorts.
func sortedJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	var buf []byte
	buf, err = appendSorted(buf, generic)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func appendSorted(buf []byte, v interface{}) ([]byte, error) {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf = append(buf, '{')
		for i, k := range keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf = append(buf, kb...)
			buf = append(buf, ':')
			buf, err = appendSorted(buf, val[k])
			if err != nil {
				return nil, err
			}
		}
		buf = append(buf, '}')
		return buf, nil
	case []interface{}:
		buf = append(buf, '[')
		for i, elem := range val {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			buf, err = appendSorted(buf, elem)
			if err != nil {
				return nil, err
			}
		}
		buf = append(buf, ']')
		return buf, nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return append(buf, b...), nil
	}
}
