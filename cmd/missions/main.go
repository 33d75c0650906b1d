package main

import "os"

// @title Space Mission Analytics API
// @version 1.0
// @description Mission ingestion, aggregation and cached NASA feeds.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
