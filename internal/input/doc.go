// Package input reads the line-oriented estimator input: a header line with
// the base delivery cost and package count, one line per package and, in
// time mode, a fleet line.
package input
