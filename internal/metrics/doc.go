// Package metrics provides dynamo.Metric implementations that summarize a
// run as it happens: mean energy, energy drift, spring strain and a simple
// blow-up detector.
package metrics
