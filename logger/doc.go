// The logger package is the logging toolkit for clerksync apps.
//
// Logs print to os.Stdout by default. When the SENTRY_DSN environment variable
// is set, warning and error logs also ship to Sentry.
package logger
