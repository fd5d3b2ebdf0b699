// Package doctor runs diagnostic checks against a tnalias installation.
//
// Each Check inspects one concern (platform support, the game's settings
// file, the library cache, the tool configuration, file permissions) and
// returns a CheckResult with a severity. A Runner executes checks in order
// and aggregates a DoctorReport. Checks that can remediate what they find
// implement Fixer; Runner.Fix applies those remediations after a run.
//
// Checks read through an injected afero.Fs so they can be exercised
// against in-memory filesystems.
package doctor
