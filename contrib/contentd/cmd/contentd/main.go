package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lumenworks/contentkit/contrib/contentd/pkg/contentd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := contentd.Main(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
