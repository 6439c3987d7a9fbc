// Package fleet simulates dispatching packages across a fixed fleet of
// vehicles.
//
// The Scheduler is a single-threaded discrete-event loop over a unitless
// simulated clock. Each iteration either dispatches a shipment to a free
// vehicle, advances the clock to the next vehicle return, or stops because no
// package remains or none of the remaining packages fits a vehicle. Every
// dispatch removes at least one package from the pool and every clock advance
// frees at least one vehicle, so the loop always terminates.
package fleet
