package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	app := newApp()
	root := app.rootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "linesh: %v\n", err)
		if app.exit == 0 {
			return 1
		}
	}
	return app.exit
}
