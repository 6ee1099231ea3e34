// Package seed provides the demonstration catalog: a fixed set of well-known
// BLE services and characteristics plus deterministically generated vendor
// variations.
//
// The catalog is pure data built by a pure function — nothing is lazily
// computed or cached. Seeding is idempotent: records whose UUID already
// exists are skipped, so a second run creates nothing.
package seed
