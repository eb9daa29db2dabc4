// Command listbench drives the sortedlist containers: concurrent insert
// throughput, insert/remove churn with consistency checks, and a small
// single-threaded demo.
//
//	listbench [-f config.yaml] inserts [-i lockfree|locked] [-w N] [-n M]
//	listbench [-f config.yaml] churn   [-i lockfree|locked] [-w N] [-d 1s]
//	listbench demo
package main

import "os"

func main() {
	if err := Run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
