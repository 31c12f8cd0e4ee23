// Package records models the quarterly house-price observations stored in
// the tracker spreadsheet: one row per (year, quarter) with a price for
// each recognised region. It owns parsing and validation of raw sheet rows
// and the period arithmetic the append flow relies on.
package records
