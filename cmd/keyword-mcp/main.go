// keyword-mcp runs the keyword pattern tools as an MCP server over stdio.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jobradar/telegram-keyword-bot/internal/mcp"
)

func main() {
	srv := mcp.NewServer()
	if err := srv.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "keyword-mcp: %v\n", err)
		os.Exit(1)
	}
}
