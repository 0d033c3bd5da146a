package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"

	"applepay-checkout-api/cache"
	"applepay-checkout-api/config"
	"applepay-checkout-api/database"
	"applepay-checkout-api/handlers"
	"applepay-checkout-api/middleware"
	"applepay-checkout-api/services/applepay"
	"applepay-checkout-api/services/auth"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-ID, X-Internal-Secret")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		// Only slow requests and errors
		elapsed := time.Since(start)
		if elapsed > 500*time.Millisecond || wrapper.status >= 400 {
			log.Printf(
				"[%s] %s %s %s %d %v",
				middleware.GetRequestID(r.Context()),
				r.Method,
				r.RequestURI,
				middleware.ClientIP(r),
				wrapper.status,
				elapsed,
			)
		}
	})
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds | log.LUTC)
	log.Printf("Server starting with %d CPUs available", runtime.NumCPU())

	cfg := config.Load()

	var db *database.Connection
	var err error
	for retries := 0; retries < 5; retries++ {
		db, err = database.NewConnection(cfg.Database)
		if err == nil {
			break
		}
		retryDelay := time.Duration(retries+1) * time.Second
		log.Printf("Failed to connect to database (attempt %d/5): %v. Retrying in %v...",
			retries+1, err, retryDelay)
		time.Sleep(retryDelay)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database after retries: %v", err)
	}
	defer db.Close()
	log.Println("Successfully connected to database")

	// Redis backs the payment request cache and the rate limiter. Both are
	// optional; requests are built from the database when Redis is down.
	var service *applepay.Service
	var rateLimiter *middleware.RateLimiter
	requestCache, err := cache.NewPaymentRequestCache(cfg.Redis.URL, cfg.ApplePay.CacheTTL)
	if err != nil {
		log.Printf("Warning: Redis unavailable, running without cache and rate limiting: %v", err)
		service = applepay.NewService(db, nil, cfg.ApplePay.DefaultCountry)
	} else {
		defer requestCache.Close()
		log.Println("Successfully connected to Redis")
		service = applepay.NewService(db, requestCache, cfg.ApplePay.DefaultCountry)
		rateLimiter = middleware.NewRateLimiter(requestCache.Client())
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer)

	applePayHandler := handlers.NewApplePayHandler(service, handlers.NewSessionStore(cfg.Session))
	authHandler := handlers.NewAuthHandler(jwtService)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(corsMiddleware)
	router.Use(loggingMiddleware)
	router.Use(middleware.SecurityHeadersMiddleware)
	if rateLimiter != nil {
		router.Use(rateLimiter.RateLimitMiddleware())
	}

	internal := router.PathPrefix("/internal").Subrouter()
	internal.Use(middleware.RequireInternalSecret(cfg.Internal.Secret))
	internal.HandleFunc("/generate-token", authHandler.GenerateToken).Methods("POST")

	api := router.PathPrefix("/api").Subrouter()

	applePay := api.PathPrefix("/apple-pay").Subrouter()
	applePay.Use(middleware.AuthMiddleware(jwtService))
	applePay.HandleFunc("/payment-request", applePayHandler.CreatePaymentRequest).Methods("POST", "OPTIONS")
	applePay.HandleFunc("/payment-request/{checkoutID}", applePayHandler.InvalidatePaymentRequest).Methods("DELETE", "OPTIONS")
	applePay.HandleFunc("/shipping-contact", applePayHandler.ValidateShippingContact).Methods("POST", "OPTIONS")

	startTime := time.Now()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		health := struct {
			Status    string `json:"status"`
			Time      string `json:"time"`
			Database  string `json:"database"`
			Redis     string `json:"redis"`
			Uptime    string `json:"uptime"`
			GoVersion string `json:"go_version"`
		}{
			Status:    "ok",
			Time:      time.Now().Format(time.RFC3339),
			Database:  "connected",
			Redis:     "connected",
			Uptime:    fmt.Sprintf("%v", time.Since(startTime)),
			GoVersion: runtime.Version(),
		}

		dbCtx, dbCancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer dbCancel()
		if err := db.PingContext(dbCtx); err != nil {
			health.Status = "degraded"
			health.Database = "error"
		}

		if requestCache == nil {
			health.Redis = "disabled"
		} else {
			redisCtx, redisCancel := context.WithTimeout(ctx, 500*time.Millisecond)
			defer redisCancel()
			if err := requestCache.Client().Ping(redisCtx).Err(); err != nil {
				health.Status = "degraded"
				health.Redis = "error"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	}).Methods("GET")

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutdown signal received, gracefully shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	log.Println("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}
