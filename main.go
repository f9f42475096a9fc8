// Command copymd copies a page selection as clean Markdown.
package main

import "github.com/gaurav-prasanna/copymd/cmd"

func main() {
	cmd.Execute()
}
