// Package services implements the business logic behind the HTTP handlers
// and the CLI.
//
// # Services
//
//   - DashboardService owns the loaded dataset and computes dashboards
//     (views and KPIs) for a date range. Reload re-reads the input file and
//     keeps the previous dataset when the new one fails to load.
//   - HealthService reports health, readiness, liveness and version.
//
// Every request recomputes its views from the in-memory dataset; nothing is
// cached between requests.
//
// # Errors
//
// Services return the sentinel errors declared in errors.go, wrapped with
// context. Handlers match them with errors.Is and map them to problem
// responses.
package services
