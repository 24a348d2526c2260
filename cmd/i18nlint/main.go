// i18nlint checks a translations tree for the conventions the platform
// relies on: one file per locale per module, unique keys, well-formed
// interpolation templates, and locale files that stay in sync with the
// base locale.
//
// Usage:
//
//	i18nlint -dir translations -base en
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/julianladisch/stripes-core/adapters"
)

func main() {
	dir := flag.String("dir", "translations", "translations directory to check")
	base := flag.String("base", "en", "base locale every module must provide")
	flag.Parse()

	problems, err := adapters.Lint(os.DirFS("."), *dir, *base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "i18nlint: %v\n", err)
		os.Exit(2)
	}

	for _, problem := range problems {
		fmt.Println(problem.String())
	}
	if len(problems) > 0 {
		fmt.Fprintf(os.Stderr, "i18nlint: %d problem(s) found\n", len(problems))
		os.Exit(1)
	}
}
