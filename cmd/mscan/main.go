package main

import (
	"fmt"
	"monochrome/internal/config"
	"os"
)

func main() {
	app := newApp(os.Stdout, config.Load)

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
