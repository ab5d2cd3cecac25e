// Package integrity checks the ordered association tables of the catalog.
//
// # Checks Provided
//
//   - Schema: every association table exposes the columns its kind reads and writes.
//   - Orders: per owner, Order values are 0..n-1; per child of a cross-referencing
//     kind, ReferenceOrder values are 0..n-1.
//
// Groups with gaps can be repaired by compaction, which keeps relative order. Reports
// are cached for a configurable TTL and can be uploaded as JSON to object storage.
//
// # HTTP Endpoints
//
//   - GET /integrity : Returns the (cached) report; ?refresh=true reruns the checks.
//   - POST /integrity/repair : Reruns the checks and compacts every group with gaps.
//   - POST /integrity/upload : Uploads the report to the reports bucket.
//   - GET /integrity/uploads : Lists uploaded reports.
package integrity
