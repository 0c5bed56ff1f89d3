// Package exporter writes long-format tables and the records of a run.
//
// The output format follows the output path extension:
//
//	.csv (and anything unknown)  header row plus one row per record, optional UTF-8 BOM
//	.parquet                     SNAPPY compressed, numeric metric columns as DOUBLE
//	.xlsx                        a single sheet named "long"
//
// Outputs are written through files.Manager.WriteAtomic so an interrupted
// run never leaves a truncated table behind.
//
// Every run can also leave a JSON Manifest next to its output, listing the
// BLAKE2b-256 digest of each input, the outcome of each table and the digest
// of the written output. WriteSummary renders the same outcomes for a terminal.
package exporter
