// Package driver provides the Profile aggregate: the dispatch-relevant view of a driver
// (license, vehicle, capacity, verification and availability).
//
// Availability is the one piece of contended state in the booking core. It is flipped
// off only by Claim, and only while the assigning unit of work holds the profile row.
package driver
