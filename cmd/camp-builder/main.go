package main

import (
	"context"
	"fmt"
	"os"

	"github.com/askiada/camp-builder/internal/cmd"
)

var version = "dev"

func main() {
	err := cmd.RootCommand(version).ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
