// Package collection mutates ordered sub-collections embedded in documents:
// likes and comments on a post, experience and education on a profile.
//
// Every function returns a new slice and leaves its input untouched, so a
// failed mutation inside an atomic store update cannot leak partial state.
package collection

import (
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/sentinel"
)

// InsertFront returns a new slice with entry prepended.
func InsertFront[E any](seq []E, entry E) []E {
	out := make([]E, 0, len(seq)+1)
	out = append(out, entry)
	return append(out, seq...)
}

// IndexOf returns the index of the first element whose key equals k, or -1.
func IndexOf[E any, K comparable](seq []E, k K, key func(E) K) int {
	for i, e := range seq {
		if key(e) == k {
			return i
		}
	}
	return -1
}

// Find returns the first element whose key equals k.
func Find[E any, K comparable](seq []E, k K, key func(E) K) (E, bool) {
	if i := IndexOf(seq, k, key); i >= 0 {
		return seq[i], true
	}
	var zero E
	return zero, false
}

// AddIfAbsent prepends entry unless an element with the same key already
// exists, in which case it returns sentinel.ErrConflict and the original
// slice.
func AddIfAbsent[E any, K comparable](seq []E, entry E, key func(E) K) ([]E, error) {
	if IndexOf(seq, key(entry), key) >= 0 {
		return seq, sentinel.ErrConflict
	}
	return InsertFront(seq, entry), nil
}

// RemoveFirst removes the first element whose key equals k and returns the
// new slice together with the removed element. Remaining elements keep their
// relative order. If nothing matches it returns sentinel.ErrNotFound and the
// original slice.
func RemoveFirst[E any, K comparable](seq []E, k K, key func(E) K) ([]E, E, error) {
	i := IndexOf(seq, k, key)
	if i < 0 {
		var zero E
		return seq, zero, sentinel.ErrNotFound
	}
	out := make([]E, 0, len(seq)-1)
	out = append(out, seq[:i]...)
	out = append(out, seq[i+1:]...)
	return out, seq[i], nil
}
