// Package log provides structured logging for patronsort on top of log/slog,
// with automatic redaction of personal data.
//
// Patron exports carry names, e-mail addresses and phone numbers. Log output
// is often pasted into bug reports, so the SecureHandler masks:
//   - attributes whose key names personal data (name, patron, email, phone,
//     address) or credentials (password, token, secret)
//   - string values that look like an e-mail address or a phone number
//
// File paths, counts, tiers and formats are logged as-is.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("row skipped", "line", 12, "name", "Alice") // name=***REDACTED***
//	slog.SetDefault(logger)
package log
