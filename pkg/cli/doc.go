// Package cli implements the tweaks command-line interface.
//
// # Commands
//
//	tweaks list [--format table|json|yaml] [--output FILE]
//	tweaks get NAME
//	tweaks set [--dry-run] NAME VALUE
//	tweaks save [--output FILE]
//	tweaks apply PATH
//	tweaks info [--format table|json|yaml]
//	tweaks monitor
//
// Settings that need root are staged in memory and written as an INI file
// which is handed to the privileged helper through pkexec.
//
// # Global Flags
//
//	--definitions, -d  Definition directory, repeatable (TWEAKS_DEFINITIONS)
//	--log-level        debug, info, warn, error (TWEAKS_LOG_LEVEL, LOG_LEVEL)
//	--log-format       json, text, journal (TWEAKS_LOG_FORMAT)
//	--metrics-file     Prometheus text file written on exit (TWEAKS_METRICS_FILE)
//	--daemon           Skip settings that need a desktop session (TWEAKS_DAEMON)
//	--helper           Privileged helper path (TWEAKS_HELPER)
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/danctnix/tweaks/pkg/cli.version=1.0.0'"
package cli
