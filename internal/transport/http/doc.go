// Package http implements the HTTP handlers of the bike-share dashboard.
//
// Handlers stay thin: they read the date range and path parameters, call the
// dashboard service and render the result. Errors are returned as RFC 7807
// problem documents through apierrors.ErrorHandler.
//
// Routes served by this package:
//
//	GET  /                               HTML dashboard
//	GET  /api/dashboard?start=&end=      every view plus the KPI widgets
//	GET  /api/views                      view and figure catalogue
//	GET  /api/views/{view}?start=&end=   one view
//	GET  /api/kpis?start=&end=           KPI widgets only
//	GET  /api/bounds                     first and last date of the dataset
//	GET  /api/dataset                    loaded file, row count, load time
//	POST /api/dataset/reload             re-read the CSV
//	GET  /charts/{figure}.png            rendered figure
//	GET  /api/export/{view}.csv          one view as CSV
//	GET  /api/export/dashboard.xlsx      workbook with KPIs and every view
//	POST /api/client-log                 browser-side log lines
//	GET  /api/health[/ready|/live]       health checks
//	GET  /api/version                    build information
package http
