package main

import (
	"context"
	"os"

	"github.com/1jkeepers3/aws-nyc-mv-gs/cmd"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
