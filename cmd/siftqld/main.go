// Command siftqld runs the query validation HTTP service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/siftql/siftql/httpapi"

	_ "github.com/siftql/siftql/operators"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := httpapi.New(httpapi.ConfigFromEnv())
	if err != nil {
		log.Fatalf("siftqld: failed to start: %v", err)
	}
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("siftqld: server error: %v", err)
	}
}
