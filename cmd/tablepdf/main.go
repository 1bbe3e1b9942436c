// Command tablepdf renders tables described in HTML, Markdown or YAML to PDF
// and reports how they break across pages.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
