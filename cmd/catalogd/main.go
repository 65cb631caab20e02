// Package main implements catalogd, a metadata service proxy that
// answers Amundsen metadata requests from Google Cloud Data Catalog.
//
// We use log.Panic() instead of log.Fatal() because log.Fatal() calls
// os.Exit() which will not run deferred calls and also makes testing
// harder (for testing, we can recover from log.Panic()).
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/mgorsk1/amundsenmetadatalibrary/internal/catalog"
	"github.com/mgorsk1/amundsenmetadatalibrary/internal/proxy"
)

func main() {
	log.SetFlags(log.Ltime)
	if err := parseAndValidateCLI(); err != nil {
		log.Panic(err)
	}

	client, err := catalog.NewClient(context.Background(), projectID, credentialsFile)
	if err != nil {
		log.Panic(err)
	}
	p := proxy.New(client, pageSize)

	log.Printf("serving metadata API for project %v on %v", projectID, listenAddr)
	if err := http.ListenAndServe(listenAddr, newRouter(p)); err != nil {
		log.Panic(err)
	}
}
