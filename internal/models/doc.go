// Package models defines the core domain models for Rollbook.
//
// # Models
//
//   - Group: an organizational group with a leader, an ordered member list
//     and an attendance table
//   - Member: one person in a group
//   - AttendanceTable: member ID -> session date -> Status
//   - Activity: one entry of the undo log, carrying typed revert data
//
// # Design Principles
//
// 1. **Value semantics**: models are copied, never shared; use Clone before mutating
// 2. **Normalised attendance**: an Unmarked cell is stored as a missing entry
// 3. **IDs over pointers**: activities reference groups and members by ID
package models
