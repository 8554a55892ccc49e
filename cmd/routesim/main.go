// Command routesim injects memristor faults into the routing multiplexers of a VPR
// routing-resource graph and writes the graph without the edges that became unusable.
//
// Usage:
//
//	routesim -input rr_graph.xml -output out.xml -sa0 1 -sa1 1 -ud 1 [flags]
//	routesim <rr_graph.xml> <sa0> <sa1> <ud>
//
// The positional form rewrites the input graph in place.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
