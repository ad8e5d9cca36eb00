package main

import (
	"fmt"
	"os"

	"socialportfolio/backend/internal/cli"
)

// @title           Social Portfolio API
// @version         1.0
// @description     Accounts, connections, profile likes and a notification feed.
// @BasePath        /
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
