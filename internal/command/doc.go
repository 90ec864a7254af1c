// Package command defines the runnable command model shared by command
// sources, the aggregator and the execution engine.
//
// A Command pairs a unique name with a Handler. Commands discovered from
// several sources are merged into a Registry, which keeps insertion order and
// lets a later source override an earlier command of the same name:
//
//	reg := command.NewRegistry()
//	reg.Add(command.Command{Name: "cache:clean", Handler: h})
//	cmd, ok := reg.Get("cache:clean")
package command
