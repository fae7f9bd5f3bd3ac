// Command manage runs administrative tasks against the storefront database:
// applying migrations and managing staff accounts.
package main

import (
	"github.com/yasinhessnawi1/storefront/cmd/manage/commands"
)

func main() {
	commands.Execute()
}
