// Package enhancement improves an existing entry in a single pass.
//
// Enhance asks the completion service for an improved definition seeded with
// the entry's current fields, merges it field by field, re-resolves references
// when they are missing or targeted, and rescores the result. It does not loop
// to a threshold.
//
// Merge rules:
//   - without focus areas, any non-empty improved field replaces the old one;
//   - with focus areas, only targeted fields and empty fields change;
//   - human-verified entries behave as if focus areas were given, so with
//     none only empty fields are filled.
//
// HumanVerified survives only when no definition field changed. Version grows
// by exactly one; ID and CreatedAt never change.
package enhancement
