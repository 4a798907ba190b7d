// Package app wires the bike-share dashboard together and owns its lifecycle.
//
// # Initialization Flow
//
// New performs, in order:
//
//  1. Resolve paths and create the export and log directories
//  2. Initialize OpenTelemetry tracing and Prometheus metrics
//  3. Create the WebSocket hub, dashboard and health services
//  4. Create the dataset watcher when dataset.watch is enabled
//  5. Build the chi router and the HTTP server
//
// Start loads the dataset, starts the hub and watcher and begins serving.
// A dataset that cannot be loaded does not stop the server: readiness
// reports not_ready and dashboard routes answer 503 until a reload succeeds.
//
// # Usage
//
//	application, err := app.New(cfg, nil)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// Run returns after SIGINT, SIGTERM or context cancellation. Stop halts the
// watcher, drains in-flight requests, closes every WebSocket client and
// flushes telemetry. The package never calls os.Exit.
package app
