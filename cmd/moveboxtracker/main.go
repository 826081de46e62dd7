package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ikluft/moveboxtracker/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "moveboxtracker:", err)
		os.Exit(1)
	}
}
