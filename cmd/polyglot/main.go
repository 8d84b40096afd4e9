// Polyglot translates Gremlin traversals, given as tree documents, into the
// source text of several Gremlin language variants.
//
// Usage:
//
//	# Translate one file to Python and Java
//	polyglot translate query.yaml -t python -t java
//
//	# Translate every document under a directory
//	polyglot batch queries/ --concurrency 8
//
//	# Re-translate files as they change, serving metrics and health
//	polyglot watch queries/ --listen :9464
//
//	# List the registered strategies
//	polyglot strategies
//
//	# Query archived translations
//	polyglot archive query --target python --failed
package main

import "os"

func main() {
	os.Exit(Execute())
}
