// Package shipment selects which packages travel together on one vehicle trip.
//
// The selection maximises the number of packages, then the total weight, then
// minimises the round trip time, without exceeding the vehicle capacity. It is
// solved as a 0/1 knapsack over integer weight units: enumerating every subset
// yields the same answer but is exponential, so the DP is the only variant
// suitable for large package pools.
package shipment
