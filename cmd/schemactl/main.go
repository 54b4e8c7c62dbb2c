// Package main provides schemactl, a command line front end for the
// structured data scanner.
//
// Usage:
//
//	schemactl analyze <url>
//	schemactl crawl --max-pages 50 --depth 2 <url>
//	schemactl health <url>
package main

func main() {
	Execute()
}
