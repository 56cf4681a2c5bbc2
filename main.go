package main

import (
	"os"

	"newsboard/service"
)

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain runs the command line in os.Args and exits with its status.
func RealMain() {
	exit(service.Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
