// Package main is the entry point for the midi2strudel API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/midi2strudel/pkg/api"
	"go.uber.org/zap"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting midi2strudel API server",
		zap.Int("port", *port),
		zap.String("docs", fmt.Sprintf("http://localhost:%d/swagger/index.html", *port)),
	)

	if err := api.StartServer(*port, log); err != nil {
		log.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}
