// Package log provides the application logger: a slog handler wrapper that
// redacts values whose attribute keys or contents look like credentials.
//
// WordPress exports routinely carry plugin settings in post meta
// (payment gateway keys, SMTP passwords, OAuth tokens). When verbose
// output logs custom fields, the meta key becomes the attribute key and
// the RedactingHandler masks the value before it reaches the writer.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("custom field", "stripe_secret_key", "sk_live_...")
//	// stripe_secret_key=***REDACTED***
package log
