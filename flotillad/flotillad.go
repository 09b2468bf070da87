// Package flotillad wires the aggregator and client daemons into cobra
// commands for the flotillad binary.
package flotillad

var (
	DefTLSVerification = false
	DefAggregatorURL   = "http://localhost:7070"
)
