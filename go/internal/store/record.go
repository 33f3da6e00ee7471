package store

import "strings"

// Record is a two-level shared record: domain key -> contributor ID -> leaf.
// The second-level key is always a contributor identity (a user ID or the
// room ID), never an arbitrary string.
type Record[T any] map[string]map[string]T

// LocationKey builds the composite key for location-scoped records.
// General location names must not contain '#'; detailed names may.
func LocationKey(generalLocation, detailedLocation string) string {
	return generalLocation + "#" + detailedLocation
}

// SplitLocationKey is the inverse of LocationKey, splitting on the first '#'.
func SplitLocationKey(key string) (generalLocation, detailedLocation string) {
	generalLocation, detailedLocation, _ = strings.Cut(key, "#")
	return generalLocation, detailedLocation
}

// setLeaf writes rec[domainKey][contributorID] = value without mutating rec.
// The outer map and the touched inner map are copied; untouched inner maps
// are shared with the previous snapshot and never edited in place.
func setLeaf[T any](rec Record[T], domainKey, contributorID string, value T) Record[T] {
	next := make(Record[T], len(rec)+1)
	for key, leaves := range rec {
		next[key] = leaves
	}

	inner := make(map[string]T, len(rec[domainKey])+1)
	for id, leaf := range rec[domainKey] {
		inner[id] = leaf
	}
	inner[contributorID] = value
	next[domainKey] = inner

	return next
}

// deleteLeaf removes rec[domainKey][contributorID] without mutating rec.
// Absence of a leaf means "that contributor has not set it", so clearing a
// mapping deletes the entry rather than writing an empty value. Domain keys
// left with no contributors are dropped entirely.
func deleteLeaf[T any](rec Record[T], domainKey, contributorID string) Record[T] {
	leaves, ok := rec[domainKey]
	if !ok {
		return rec
	}
	if _, ok := leaves[contributorID]; !ok {
		return rec
	}

	next := make(Record[T], len(rec))
	for key, inner := range rec {
		next[key] = inner
	}

	if len(leaves) == 1 {
		delete(next, domainKey)
		return next
	}

	inner := make(map[string]T, len(leaves)-1)
	for id, leaf := range leaves {
		if id != contributorID {
			inner[id] = leaf
		}
	}
	next[domainKey] = inner

	return next
}
