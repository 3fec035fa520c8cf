// Package dataprocessing ingests the supply-chain GHG emission-factor
// workbook. For each requested year it reads the "<year>_Detail_Commodity"
// and "<year>_Detail_Industry" sheets, normalizes their two schemas into one
// combined shape, and accumulates the rows in append order. A failure on
// either sheet of a year skips that year and keeps going, so one bad year
// never discards the rest of the run.
//
// The package also provides a Profiler that computes the data-integrity
// statistics (group counts, null checks, margin-identity violations) used
// for the profile report.
package dataprocessing
