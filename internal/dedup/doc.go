// Package dedup implements the duplicate detection engine for the contact
// directory.
//
// The detector is deterministic and pure: it takes a snapshot of contact
// records and clusters them into duplicate groups using independent match
// signals (exact normalized name, shared phone number, shared email address,
// and a bounded similar-name pass). Overlapping candidate pairs are merged
// with union-find so that transitively connected contacts always land in a
// single group.
//
// Detection performs no I/O and may be invoked concurrently for independent
// snapshots without coordination.
package dedup
