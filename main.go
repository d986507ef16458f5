// Command recipecards renders recipe Markdown documents as themed cards.
package main

import "github.com/gaurav-prasanna/recipecards/cmd"

func main() {
	cmd.Execute()
}
