package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe()
	case "sitemap":
		err = runSitemap(os.Args[2:])
	case "hash-password":
		err = runHashPassword(os.Stdin, os.Stdout)
	case "version":
		fmt.Printf("website %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`website - the Northpoint IT marketing site

Usage:
  website <command> [arguments]

Commands:
  serve            Run the HTTP server
  sitemap [-o f]   Write sitemap.xml to stdout or to file f
  hash-password    Read a password on stdin and print its bcrypt hash
  version          Print the version
  help             Show this help message

Configuration is read from the environment and .env files. Outside prod a
missing ADMIN_SESSION_SECRET is replaced by a random one, so admin sessions
end when the server restarts.`)
}
