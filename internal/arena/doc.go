// Package arena provides bulk, append-only allocation regions.
//
// A Region hands out slots from fixed chunks. Chunks are never moved,
// reused, or freed individually, so every pointer and slice obtained from a
// region stays valid for as long as the region itself is reachable. The
// region is torn down as a unit when it becomes unreachable.
//
// Regions have no internal synchronization. A region must not be grown from
// more than one goroutine at a time.
package arena
