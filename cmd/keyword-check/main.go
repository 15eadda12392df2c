// keyword-check parses keyword patterns and optionally tests them against
// a message text:
//
//	keyword-check '[python+remote]'
//	keyword-check -text 'Remote Python role' '[python+remote]' java
//
// Exit status is non-zero when any pattern fails to parse.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
)

func main() {
	text := flag.String("text", "", "message text to test the patterns against")
	flag.Parse()

	patterns := flag.Args()
	if len(patterns) == 0 {
		fmt.Fprintln(os.Stderr, "usage: keyword-check [-text message] pattern [pattern...]")
		os.Exit(2)
	}

	var msg *domain.Message
	if *text != "" {
		msg = domain.NormalizeMessage(*text)
	}

	failed := false
	for _, raw := range patterns {
		entry, err := domain.ParseKeyword(raw)
		if err != nil {
			failed = true
			fmt.Printf("%-30s INVALID  %v\n", raw, err)
			continue
		}
		if msg != nil {
			verdict := "no match"
			if entry.Matches(msg) {
				verdict = "MATCH"
			}
			fmt.Printf("%-30s %-8s %s\n", raw, verdict, entry.Canonical())
		} else {
			fmt.Printf("%-30s OK       %s\n", raw, entry.Canonical())
		}
	}

	if failed {
		os.Exit(1)
	}
}
