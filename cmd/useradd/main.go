// Command useradd provisions a login for the catalog API.  The HTTP surface
// never creates users, so operators seed them with this tool.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/iliyamo/show-catalog/internal/config"
	"github.com/iliyamo/show-catalog/internal/database"
	"github.com/iliyamo/show-catalog/internal/repository"
	"github.com/iliyamo/show-catalog/internal/utils"
)

func main() {
	email := flag.String("email", "", "email of the new user")
	password := flag.String("password", "", "password of the new user")
	flag.Parse()
	if *email == "" || *password == "" {
		log.Fatal("useradd: -email and -password are required")
	}

	cfg := config.Load()
	cfg.MustDriver()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("useradd: open database: %v", err)
	}
	defer db.Close()

	hash, err := utils.HashPassword(*password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("useradd: hash password: %v", err)
	}
	id, err := repository.NewUserRepo(db).Create(ctx, *email, hash)
	if errors.Is(err, repository.ErrEmailExists) {
		log.Fatalf("useradd: %s already exists", *email)
	}
	if err != nil {
		log.Fatalf("useradd: %v", err)
	}
	log.Printf("created user %d (%s)", id, *email)
}
