// tokengen prints a signed bearer token for a user id, for exercising a
// development server. It shares the server config, so the secret and the
// token lifetime come from the same defaults/JSON/flags as the server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/cartkeeper/internal/flagx"
	"github.com/dmitrijs2005/cartkeeper/internal/server/auth"
	"github.com/dmitrijs2005/cartkeeper/internal/server/config"
)

func main() {

	cfg := config.LoadConfig()

	args := flagx.FilterArgs(os.Args[1:], []string{"-u"})
	fs := flag.NewFlagSet("tokengen", flag.ContinueOnError)
	userID := fs.String("u", "", "user id to issue the token for")
	if err := fs.Parse(args); err != nil {
		log.Fatal(err)
	}
	if *userID == "" {
		log.Fatal("user id is required (-u)")
	}

	token, err := auth.GenerateToken(*userID, []byte(cfg.SecretKey), cfg.TokenValidityDuration)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(token)
}
