package main

import (
	"os"

	"github.com/clay-auth/clay-auth/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
