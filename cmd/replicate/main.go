// Command replicate copies video records from MongoDB into a Postgres (or
// Supabase) database for SQL-side analysis of transcripts.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"video-transcriber/pkg/db"
	"video-transcriber/pkg/replication"
)

func main() {
	mongoURI := flag.String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	mongoDB := flag.String("mongo-db", "videotranscriber", "MongoDB database name")
	mongoCollection := flag.String("mongo-collection", "videos", "MongoDB collection name")
	postgresDSN := flag.String("postgres-dsn", "", "Postgres connection string (takes precedence over Supabase flags)")
	supabaseURL := flag.String("supabase-url", "", "Supabase project URL")
	supabaseKey := flag.String("supabase-key", "", "Supabase service role key")
	supabasePassword := flag.String("supabase-password", "", "Supabase database password")
	flag.Parse()

	if *postgresDSN == "" && *supabaseURL == "" {
		log.Fatal("either -postgres-dsn or -supabase-url is required")
	}

	ctx := context.Background()

	mongo := db.NewClient(*mongoURI, *mongoDB, *mongoCollection)
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := mongo.Connect(connectCtx); err != nil {
		cancel()
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	cancel()
	defer func() {
		if err := mongo.Close(context.Background()); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}()

	var target db.DBProvider
	if *postgresDSN != "" {
		pg := db.NewPostgresClient(db.PostgresConfig{DSN: *postgresDSN})
		if err := pg.Connect(ctx); err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pg.Close()
		target = pg
	} else {
		sb := db.NewSupabaseClient(db.SupabaseConfig{
			SupabaseURL: *supabaseURL,
			SupabaseKey: *supabaseKey,
			Password:    *supabasePassword,
		})
		if err := sb.Connect(ctx); err != nil {
			log.Fatalf("Failed to connect to Supabase: %v", err)
		}
		defer sb.Close()
		target = sb
	}

	replicator, err := replication.NewReplicator(replication.Config{
		Mongo:    mongo,
		Postgres: target,
	})
	if err != nil {
		log.Fatalf("Failed to build replicator: %v", err)
	}

	start := time.Now()
	if err := replicator.ReplicateVideosMongoToPostgres(ctx); err != nil {
		log.Fatalf("Replication failed: %v", err)
	}
	log.Printf("Done in %s", time.Since(start).Round(time.Millisecond))
}
