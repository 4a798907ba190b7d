// Package exporter writes dashboard views to CSV files and XLSX workbooks.
//
// CSVWriter is the low-level writer, with an optional UTF-8 BOM so spreadsheet
// applications pick the right encoding. WriteView and WriteWorkbook stream a
// single view or the whole dashboard to any writer, and Exporter.ExportAll
// writes every view plus the workbook into a directory:
//
//	exp := exporter.NewExporter(paths, logger)
//	files, err := exp.ExportAll(ctx, "", dashboard.Views, dashboard.KPIs)
package exporter
