package main

import (
	"context"
	"log"
	"net/http"

	"cloud.google.com/go/firestore"
	gcsstorage "cloud.google.com/go/storage"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/codewithvis/Spend-Wise/internal/auth"
	"github.com/codewithvis/Spend-Wise/internal/config"
	"github.com/codewithvis/Spend-Wise/internal/extraction"
	"github.com/codewithvis/Spend-Wise/internal/service"
	"github.com/codewithvis/Spend-Wise/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var storeImpl store.Store
	var firebaseAuth *auth.FirebaseAuth

	if cfg.UseMemoryStore {
		log.Println("Using in-memory store for local development")
		storeImpl = store.NewMemoryStore()

		// Local development always uses mock authentication, so there is no
		// Firebase setup to do before hacking on the API.
		log.Println("Using mock authentication for local development")
	} else {
		firestoreClient, err := firestore.NewClient(ctx, cfg.GCPProject)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()

		if cfg.SkipAuth {
			log.Println("WARNING: SKIP_AUTH enabled - using mock authentication with Firestore (for seeding/testing only)")
		} else {
			firebaseAuth, err = auth.NewFirebaseAuth(ctx)
			if err != nil {
				log.Fatalf("Failed to initialize Firebase Auth: %v", err)
			}
		}

		storeImpl = store.NewFirestoreStore(firestoreClient)
	}

	var extractor *extraction.GeminiClient
	if cfg.GeminiAPIKey != "" {
		extractor = extraction.NewGeminiClient(cfg.GeminiAPIKey)
	} else {
		log.Println("GEMINI_API_KEY not set - text and PDF imports disabled")
	}

	financeService := service.NewFinanceService(storeImpl, extractor)

	if cfg.StatementBucket != "" {
		storageClient, err := gcsstorage.NewClient(ctx)
		if err != nil {
			log.Fatalf("Failed to create storage client: %v", err)
		}
		defer storageClient.Close()
		financeService.SetStorageClient(storageClient.Bucket(cfg.StatementBucket))
		log.Printf("Archiving imported statements to gs://%s", cfg.StatementBucket)
	}

	mux := http.NewServeMux()
	financeService.RegisterRoutes(mux)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	var handler http.Handler = mux
	if firebaseAuth != nil {
		handler = auth.Middleware(firebaseAuth)(handler)
	} else {
		handler = auth.LocalDevMiddleware()(handler)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"User-Agent",
			"X-Debug-Impersonate-User",
		},
		AllowCredentials: true,
	})
	handler = c.Handler(handler)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	log.Printf("Starting server on %s", cfg.Addr())
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
