// Package bootstrap runs appcli from process start to exit code.
//
// A Bootstrapper gates everything on a write probe of the working directory,
// aggregates commands from its sources, hands the registry to the execution
// engine and finally reports any command discovery failure that was deferred
// while the selected command ran:
//
//	b := bootstrap.New(cfg, bootstrap.Deps{Prober: checker, Sources: srcs, Engine: eng})
//	res := b.Run(ctx, os.Args[1:])
//	os.Exit(res.ExitCode)
package bootstrap
