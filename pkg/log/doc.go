/*
Package log provides structured logging for the PubSub core using zerolog.

The log package wraps zerolog to provide JSON-structured logging with
component-specific loggers, configurable log levels, and helper functions for
common logging patterns. All logs include timestamps and support filtering by
severity level.

# Usage

Initializing the logger:

	import "github.com/cuemby/pubsubcore/pkg/log"

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

Component loggers:

	reserveLog := log.WithComponent("reserve")
	reserveLog.Info().Str("uri", uri).Msg("reclaimed expired reservation")

	connLog := log.WithConnectionID(connID)
	connLog.Warn().Msg("register called on already-registered connection")

# Log levels

  - Debug: verbose diagnostics (candidate id probes in the reserve allocator)
  - Info: lifecycle events (connection added, writer group removed)
  - Warn: recoverable anomalies (session expired with live reservations)
  - Error: operation failures
  - Fatal: unrecoverable startup errors (exits the process)

# Fields

Loggers attach structured fields rather than formatting them into the
message string, so they stay queryable by downstream log aggregation:

	log.Logger.Info().
		Uint32("connection_id", connID).
		Str("uri", transportProfileURI).
		Msg("connection registered")
*/
package log
