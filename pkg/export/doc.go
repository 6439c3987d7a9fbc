// Package export renders package estimates as text, JSON or CSV.
package export
