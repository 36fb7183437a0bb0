// Package churn implements the aggregation engine: loading and cleaning the
// customer dataset, then computing the descriptive statistics behind every
// dashboard view. Everything past the one-time load is a pure function over
// an immutable record slice, so results are deterministic and safe to compute
// concurrently from any number of requests.
package churn
