// Package attribute implements the BLE attribute catalog: the data model,
// the hierarchy integrity rules, and SQLite persistence.
//
// BLE organises device capabilities into services containing characteristics
// and descriptors. The catalog stores all three kinds in one flat table keyed
// by UUID; the parent/child relationship is derived from service_uuid, never
// stored separately.
//
// Integrity rules enforced at creation:
//   - UUIDs are globally unique
//   - characteristics and descriptors must reference an existing service
//
// Deletion of a service with children is rejected unless the caller picks
// cascade (ForceDelete) or reparent-to-null (OrphanDelete) semantics. Both
// run in a single transaction.
package attribute
