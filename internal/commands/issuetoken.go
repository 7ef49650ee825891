package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/matthinz/lunchbot/internal/auth"
)

// IssueToken handles the issue-token subcommand. It prints a bearer token
// for the admin routes, signed with JWT_SECRET.
func IssueToken(args []string) {
	fs := flag.NewFlagSet("issue-token", flag.ExitOnError)
	subject := fs.String("subject", "", "Operator name to embed in the token")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lunchbot issue-token -subject NAME\n\n")
		fmt.Fprintf(os.Stderr, "Prints a 24h bearer token for the admin routes.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  JWT_SECRET    Signing secret (required)\n")
	}
	fs.Parse(args)

	if *subject == "" {
		fs.Usage()
		os.Exit(1)
	}

	token, err := auth.GenerateToken(*subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
