// Command tokengen prints an access token for the directory server, signed
// with the server's secret key and valid for its configured token lifetime.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/memberportal/internal/flagx"
	"github.com/dmitrijs2005/memberportal/internal/server/auth"
	"github.com/dmitrijs2005/memberportal/internal/server/config"
)

func main() {

	cfg := config.LoadConfig()

	subject := "portal"
	fs := flag.NewFlagSet("tokengen", flag.ExitOnError)
	fs.StringVar(&subject, "subject", subject, "token subject")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-subject"}))

	token, err := auth.GenerateToken(subject, []byte(cfg.SecretKey), cfg.TokenValidity)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println(token)

}
