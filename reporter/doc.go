// Package reporter registers a segment's network identity with the coordinator.
//
// A Reporter connects to the coordinator, retrying for as long as it is
// unreachable, then runs a single update of the segment's row in the cluster
// configuration and classifies the outcome. It runs once per process lifetime.
// Every outcome except Registered is returned as a *FatalError; mapping it to
// an abnormal process exit is left to the caller.
package reporter
