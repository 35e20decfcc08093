// Package log provides the slog setup for cikparser.
//
// EDGAR requires every request to declare a User-Agent with contact details,
// typically an email address. Those values end up in debug logs (request
// attributes, the effective configuration), so the SecureHandler masks email
// addresses inside any string value and blanks attributes whose key names a
// credential.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("fetching", "url", u, "user_agent", "Acme admin@acme.com")
//	// user_agent="Acme ***REDACTED***"
package log
