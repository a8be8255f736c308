/*
Package monitoring provides Prometheus metrics for the shell.

# Metrics

  - kiosk_windows_open, kiosk_windows_created_total, kiosk_windows_closed_total
  - kiosk_session_saves_total{result}, kiosk_session_loads_total{result}
  - kiosk_surface_failures_total{command}: discarded best-effort surface calls
  - kiosk_input_commands_total{command}
  - kiosk_control_requests_total, kiosk_control_request_duration_seconds
  - kiosk_event_stream_connections

Collectors live on a private registry so several shells (or tests) can
coexist in one process.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(monitoring.Handler(metrics)))
*/
package monitoring
