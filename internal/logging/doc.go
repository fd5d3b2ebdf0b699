// Package logging provides structured logging for the tnalias CLI using slog.
//
// [New] builds the CLI logger from the global flags: the -v count (or
// TNALIAS_DEBUG when no -v is given), -q, --log-format and --log-file. The
// log file always receives JSON; [Tee] fans records out to it.
//
//	logger := logging.New(logging.Options{
//		Verbosity: 2,
//		DebugEnv:  os.Getenv("TNALIAS_DEBUG"),
//		Format:    logging.FormatText,
//	})
//	logger.Debug("fetching blob", "path", "library/net.txt")
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
//
// # Context
//
// The CLI stores its logger on the command context with [NewContext].
// Commands retrieve it with [FromContext] and pass it into the core
// packages through their WithLogger options.
//
// # Redaction
//
// The text handler masks values of attributes whose key looks secret
// (token, password, ...), values with a known token prefix, and
// credentials embedded in URLs.
//
// # Quiet Mode
//
// Use [NewDiscard] when log output should be suppressed entirely:
//
//	logger := logging.NewDiscard()
package logging
