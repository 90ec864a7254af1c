// Package preflight verifies that the machine can run appcli commands before
// any command is dispatched.
//
// The central check is ProbeWritable: it proves a directory is usable by
// creating (if needed) the directory and then writing and deleting a probe
// file inside it. Permission bits alone are not trusted; some filesystems and
// mounts report writable directories that reject writes.
//
// The Checker type bundles the probe with the broader checks reported by
// "appcli doctor":
//
//	checker := preflight.New()
//	results := checker.RunAll(ctx, "/path/to/var/generation")
//	if checker.HasCriticalFailures(results) {
//	    // Handle failures
//	}
package preflight
