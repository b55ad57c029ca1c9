// Command setadminclaim grants or revokes the admin custom claim on a Firebase user.
//
//	setadminclaim -uid <firebase-uid> [-revoke]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mubs-locator/internal/application/admin"
	"github.com/mubs-locator/internal/config"
	firebaseinfra "github.com/mubs-locator/internal/infrastructure/firebase"
)

func main() {
	uid := flag.String("uid", "", "Firebase user ID")
	revoke := flag.Bool("revoke", false, "remove the admin claim instead of granting it")
	flag.Parse()

	if *uid == "" {
		flag.Usage()
		os.Exit(2)
	}
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app, err := firebaseinfra.NewApp(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	fbAuth, err := firebaseinfra.NewAuth(ctx, app)
	if err != nil {
		log.Fatal(err)
	}
	svc := admin.NewService(fbAuth)

	var claims map[string]interface{}
	if *revoke {
		claims, err = svc.Revoke(ctx, *uid)
	} else {
		claims, err = svc.Grant(ctx, *uid)
	}
	if err != nil {
		log.Fatalf("update claims for %s: %v", *uid, err)
	}

	out, _ := json.Marshal(claims)
	fmt.Printf("Custom claims for %s: %s\n", *uid, out)
}
