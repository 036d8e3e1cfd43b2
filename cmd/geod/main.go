// Command geod runs a GEO mutual-credit network node.
package main

import "github.com/geohub/geod/internal/cli"

func main() {
	cli.Execute()
}
