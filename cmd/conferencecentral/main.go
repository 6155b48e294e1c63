// Command conferencecentral runs the Conference Central API and its maintenance tasks.
//
//	@title						Conference Central API
//	@version					1.0
//	@description				Conferences, sessions, registrations and wishlists.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
