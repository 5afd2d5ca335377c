// filepath: cmd/archivehub/main.go
package main

import "archivehub/internal/cli"

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}
