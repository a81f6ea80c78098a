// Command ontograph is the reference CLI over the event-graph engine: it
// loads the genesis ontology plus any configured BSL files, then exposes
// append/query/recalc/validate/watch as subcommands over one in-process
// store.Store.
package main

func main() {
	Execute()
}
