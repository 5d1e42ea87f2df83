package main

import (
	"context"
	"os"

	"restaurant/ordering/internal/cli"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Errorf("❌ %v", err)
		os.Exit(1)
	}
}
