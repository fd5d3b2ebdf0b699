// Package validator collects problems found in an alias set and renders them.
//
// A [Result] is a flat list of [Issue] values, each naming the alias it
// concerns and, when there is one, the command fragment at fault. Errors
// block a write to the settings file; warnings are shown and the write goes
// ahead.
//
//	result := &validator.Result{}
//	result.Add(validator.SeverityWarning, "scan", "command repeated", "netstat")
//	if err := result.Err(); err != nil {
//		// refuse the write
//	}
//
// A [Reporter] prints a Result grouped by alias.
package validator
