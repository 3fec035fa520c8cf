// Package exporter writes the pipeline's CSV outputs: the combined
// emission-factor dataset, per-year splits, and the data-profile report.
// Struct-tagged records go through gocsv; ad-hoc reports go through the
// generic CSVWriter.
package exporter
