// Package replication copies video records from MongoDB into Postgres so
// transcripts can be queried with SQL alongside other analytics data.
package replication

import (
	"context"
	"crypto/md5"
	"database/sql"
	"fmt"
	"log"
	"sync"

	"video-transcriber/pkg/db"
	"video-transcriber/pkg/domain"
)

// Config wires the replication dependencies.
type Config struct {
	Mongo    *db.Client
	Postgres db.DBProvider
}

// Replicator replicates video records from MongoDB to Postgres.
//
// This is intentionally a one-shot, "copy everything" flow.
type Replicator struct {
	mongo *db.Client
	pg    db.DBProvider
}

func NewReplicator(cfg Config) (*Replicator, error) {
	if cfg.Mongo == nil {
		return nil, fmt.Errorf("mongo client is required")
	}
	if cfg.Postgres == nil {
		return nil, fmt.Errorf("postgres client is required")
	}
	return &Replicator{
		mongo: cfg.Mongo,
		pg:    cfg.Postgres,
	}, nil
}

// ReplicateVideosMongoToPostgres reads all videos from Mongo and inserts them
// into the Postgres `video` table. Records already present (by id) are
// skipped; videos are processed in parallel batches.
func (r *Replicator) ReplicateVideosMongoToPostgres(ctx context.Context) error {
	if err := r.ensureVideoSchema(ctx); err != nil {
		return err
	}

	videos, err := r.mongo.GetAllVideos(ctx)
	if err != nil {
		return err
	}

	log.Printf("Loaded %d videos from Mongo, processing in batches...", len(videos))

	totalProcessed, totalInserted, err := r.processBatches(ctx, videos)
	if err != nil {
		return err
	}

	log.Printf("Replication complete: processed %d videos, inserted %d new videos", totalProcessed, totalInserted)
	return nil
}

func (r *Replicator) processBatches(ctx context.Context, videos []domain.Video) (int, int, error) {
	const processBatchSize = 100
	const numWorkers = 5

	type batchJob struct {
		batch []domain.Video
		start int
		end   int
	}

	type batchResult struct {
		processed int
		inserted  int
		err       error
	}

	numBatches := (len(videos) + processBatchSize - 1) / processBatchSize
	jobs := make(chan batchJob, numBatches)
	results := make(chan batchResult, numBatches)

	for start := 0; start < len(videos); start += processBatchSize {
		end := start + processBatchSize
		if end > len(videos) {
			end = len(videos)
		}
		jobs <- batchJob{batch: videos[start:end], start: start, end: end}
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				inserted, err := r.processBatch(ctx, job.batch, job.start, job.end)
				results <- batchResult{
					processed: len(job.batch),
					inserted:  inserted,
					err:       err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	totalProcessed := 0
	totalInserted := 0
	for result := range results {
		if result.err != nil {
			return totalProcessed, totalInserted, result.err
		}
		totalProcessed += result.processed
		totalInserted += result.inserted
	}

	return totalProcessed, totalInserted, nil
}

func (r *Replicator) processBatch(ctx context.Context, batch []domain.Video, start, end int) (int, error) {
	log.Printf("Processing batch [%d:%d] (%d videos)...", start, end, len(batch))

	existing, err := r.checkIDsExistInPostgres(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("check existing ids for batch [%d:%d]: %w", start, end, err)
	}

	toInsert := filterNewVideosByID(batch, existing)
	if len(toInsert) == 0 {
		return 0, nil
	}

	if err := r.insertVideosTx(ctx, toInsert); err != nil {
		return 0, fmt.Errorf("insert batch [%d:%d]: %w", start, end, err)
	}

	return len(toInsert), nil
}

func (r *Replicator) ensureVideoSchema(ctx context.Context) error {
	if r.pg.DB() == nil {
		return fmt.Errorf("postgres DB not connected")
	}

	const ddl = `
CREATE TABLE IF NOT EXISTS video (
  id TEXT PRIMARY KEY,
  original_name TEXT NOT NULL DEFAULT '',
  filename TEXT NOT NULL DEFAULT '',
  transcription TEXT NOT NULL DEFAULT '',
  transcription_status TEXT NOT NULL DEFAULT 'pending',
  failure_detail TEXT NOT NULL DEFAULT '',
  upload_date TIMESTAMPTZ NOT NULL DEFAULT now()
);`

	if _, err := r.pg.DB().ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create video table: %w", err)
	}
	return nil
}

// checkIDsExistInPostgres checks which ids from the given batch already exist
// in Postgres, so whole batches need not be held in memory at once.
func (r *Replicator) checkIDsExistInPostgres(ctx context.Context, batch []domain.Video) (map[string]bool, error) {
	if r.pg.DB() == nil {
		return nil, fmt.Errorf("postgres DB not connected")
	}
	if len(batch) == 0 {
		return map[string]bool{}, nil
	}

	ids := make([]interface{}, 0, len(batch))
	for _, v := range batch {
		if !v.ID.IsZero() {
			ids = append(ids, v.ID.Hex())
		}
	}
	if len(ids) == 0 {
		return map[string]bool{}, nil
	}

	query, args := buildIDInQuery(ids)

	rows, err := r.pg.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query existing ids: %w", err)
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		if id != "" {
			set[id] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return set, nil
}

// buildIDInQuery builds a SELECT with an IN clause. Each batch gets a unique
// leading comment (count + hash of the first id) so pgx does not try to share
// one cached prepared statement across parallel workers.
func buildIDInQuery(ids []interface{}) (string, []interface{}) {
	var hashSuffix string
	if len(ids) > 0 {
		if idStr, ok := ids[0].(string); ok {
			hash := md5.Sum([]byte(idStr))
			hashSuffix = fmt.Sprintf("%x", hash[:4])
		}
	}
	query := fmt.Sprintf(`/* q_%d_%s */ SELECT id FROM video WHERE id IN (`, len(ids), hashSuffix)
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query += ")"
	return query, args
}

func filterNewVideosByID(all []domain.Video, existing map[string]bool) []domain.Video {
	if existing == nil {
		existing = map[string]bool{}
	}

	out := make([]domain.Video, 0, len(all))
	for _, v := range all {
		if v.ID.IsZero() {
			continue
		}
		if existing[v.ID.Hex()] {
			continue
		}
		out = append(out, v)
	}
	return out
}

// insertVideosTx inserts a batch of videos within a transaction.
func (r *Replicator) insertVideosTx(ctx context.Context, batch []domain.Video) error {
	tx, err := r.pg.DB().BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertQuery = `
INSERT INTO video (id, original_name, filename, transcription, transcription_status, failure_detail, upload_date)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING`

	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range batch {
		if v.ID.IsZero() {
			continue
		}
		_, err := stmt.ExecContext(ctx,
			v.ID.Hex(), v.OriginalName, v.Filename, v.Transcription, string(v.Status), v.FailureDetail, v.UploadDate)
		if err != nil {
			return fmt.Errorf("insert video id=%q: %w", v.ID.Hex(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
