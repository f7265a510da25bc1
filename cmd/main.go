package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/Vovarama1992/support-lingo-bridge/internal/ai"
	"github.com/Vovarama1992/support-lingo-bridge/internal/bridge"
	"github.com/Vovarama1992/support-lingo-bridge/internal/dialogue"
	"github.com/Vovarama1992/support-lingo-bridge/internal/relay"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	workingLang := os.Getenv("WORKING_LANG")
	if workingLang == "" {
		workingLang = "en"
	}

	// --- Ledger backend: Postgres when configured, memory otherwise ---
	var ledger relay.LedgerStore = relay.NewMemoryStore()
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			log.Fatalf("db open error: %v", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("db ping error: %v", err)
		}

		pg, err := relay.NewPostgresStore(db)
		if err != nil {
			log.Fatalf("ledger schema error: %v", err)
		}
		ledger = pg
		log.Println("ledger store: postgres")
	} else {
		log.Println("ledger store: memory")
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// --- Module wiring ---
	aiClient := ai.NewOpenAIClient()
	sessions := dialogue.NewMemoryStore()
	dialogueService := dialogue.NewService(sessions, aiClient, aiClient, aiClient, aiClient)
	relayService := relay.NewService(ledger, aiClient, sessions, workingLang)
	handler := bridge.NewHandler(dialogueService, relayService, sessions)

	bridge.RegisterRoutes(r, handler)

	// --- health ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	log.Printf("listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
