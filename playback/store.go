// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package playback

import (
	"iter"

	"github.com/google/uuid"
)

// Store is an append-only sequence of ApiCallRecord values, plus the two
// derived maxima spec.md §4.4 tracks on every append. It is not
// thread-safe under concurrent writers, exactly like spec.md §5 requires;
// a single StateBuilder owns a Store for the duration of one decode pass.
type Store struct {
	// RunID identifies this decode pass (ADDED per SPEC_FULL.md's
	// Identifiers note): a uuid, generated once per Store, attached to
	// every record it holds purely for diagnostics.
	RunID string

	records []*ApiCallRecord

	latestTimestamp uint32
	largestThreadID uint32
}

// NewStore creates an empty Store with a freshly generated RunID.
func NewStore() *Store {
	return &Store{RunID: uuid.NewString()}
}

// Append adds rec to the Store, updating LatestTimestamp/LargestThreadID.
func (s *Store) Append(rec *ApiCallRecord) {
	rec.RunID = s.RunID
	s.records = append(s.records, rec)
	if rec.Timestamp > s.latestTimestamp {
		s.latestTimestamp = rec.Timestamp
	}
	if rec.ThreadID > s.largestThreadID {
		s.largestThreadID = rec.ThreadID
	}
}

// Len returns the number of records in the Store.
func (s *Store) Len() int { return len(s.records) }

// At returns the record at index i, which must be in [0, Len()).
func (s *Store) At(i int) *ApiCallRecord { return s.records[i] }

// LatestTimestamp returns the largest Timestamp seen across all appended
// records, or 0 for an empty Store.
func (s *Store) LatestTimestamp() uint32 { return s.latestTimestamp }

// LargestThreadID returns the largest remapped ThreadID seen across all
// appended records, or 0 for an empty Store.
func (s *Store) LargestThreadID() uint32 { return s.largestThreadID }

// All iterates every record in append order.
func (s *Store) All() iter.Seq2[int, *ApiCallRecord] {
	return func(yield func(int, *ApiCallRecord) bool) {
		for i, rec := range s.records {
			if !yield(i, rec) {
				return
			}
		}
	}
}
