// Package domain contains the core entities and value objects for fishery.
//
// This package is the innermost layer of the service. It has no dependencies
// on infrastructure concerns (HTTP, SQL, logging) and holds only the record
// shapes and the rules that apply to them.
//
// # Entities
//
//   - [Fish]: A persisted record with a species name and an optional size
//   - [FishCreate]: The payload accepted when creating a Fish
//   - [FishUpdate]: The payload accepted for a partial update
//
// # Partial updates
//
// [FishUpdate] fields are [Optional] values. A field that was not sent
// leaves the stored value untouched; a field that was sent overwrites it,
// including zero and (for size) null. Presence is tracked explicitly rather
// than inferred from the value.
package domain
