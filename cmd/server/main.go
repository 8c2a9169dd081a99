package main

import (
	"context"
	"flag"
	"log"

	firebaseSDK "firebase.google.com/go"
	"google.golang.org/api/option"

	"github.com/chaos156/elearning/internal/auth"
	"github.com/chaos156/elearning/internal/booking"
	"github.com/chaos156/elearning/internal/config"
	"github.com/chaos156/elearning/internal/course"
	"github.com/chaos156/elearning/internal/enrollment"
	"github.com/chaos156/elearning/internal/lessons"
	"github.com/chaos156/elearning/internal/progress"
	"github.com/chaos156/elearning/internal/router"
	"github.com/chaos156/elearning/internal/server"
	"github.com/chaos156/elearning/internal/store"
)

func main() {
	flag.Parse()

	ctx := context.Background()
	cfg := config.Config

	var fbConfig *firebaseSDK.Config
	if cfg.FirebaseProjectID != "" {
		fbConfig = &firebaseSDK.Config{ProjectID: cfg.FirebaseProjectID}
	}
	app, err := firebaseSDK.NewApp(ctx, fbConfig, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	if err != nil {
		log.Panicf("error initializing Firebase app: %v", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Panicf("error creating Firebase auth client: %v", err)
	}
	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		log.Panicf("error creating Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	docs := store.NewFirestore(firestoreClient)
	authService := auth.NewService(docs, auth.NewFirebaseIdentity(authClient))

	h := &router.Handler{
		Auth:        authService,
		Courses:     course.NewService(docs),
		Enrollments: enrollment.NewLedger(docs),
		Lessons:     lessons.NewService(docs),
		Progress:    progress.NewAggregator(docs),
		Bookings:    booking.NewService(docs),
	}

	server.Start(h)
}
