// The main package for the portal-crawler executable.
package main

import (
	"github.com/youthball/portal-crawler/cmd"
)

func main() {
	cmd.Execute()
}
