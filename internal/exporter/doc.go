// Package exporter serializes churn analysis snapshots into downloadable
// files.
//
// A Snapshot bundles everything one filtered view produces: the headline
// metrics, the segment breakdown tables, the geographic rollup, churn
// reasons, at-risk counts, and the filtered records themselves. Every
// format renders the same snapshot:
//
//   - csv: the record rows under the loader's canonical headers, with a
//     UTF-8 BOM so Excel opens the file cleanly. An exported CSV loads
//     straight back through the dataset loader.
//   - xlsx: a multi-sheet workbook (Overview, one sheet per breakdown
//     dimension, Churn Reasons, At Risk, and a streamed Records sheet).
//   - json: the whole snapshot, indented.
//
// Example usage:
//
//	snap := exporter.BuildSnapshot(filtered, dataset.Info(), filter)
//	exp := exporter.New(logger)
//	err := exp.ExportFile(path, exporter.FormatXLSX, snap)
package exporter
