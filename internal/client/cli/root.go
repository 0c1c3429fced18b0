package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// getStatus renders the prompt suffix: the user name when logged in,
// plus the cart's item count when non-empty.
func (a *App) getStatus() string {
	s := ""
	if user, ok := a.session.User(); ok {
		s = user.Username
	}
	if n := a.cart.TotalItems(); n > 0 {
		if s != "" {
			s += " "
		}
		s += fmt.Sprintf("cart:%d", n)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to the storefront CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
