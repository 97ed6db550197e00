package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"alfredoptarigan/candidate-ranker/internal/logger"
)

// embeddingSize matches text-embedding-004.
const embeddingSize = 768

// ResumeChunk is one indexed slice of a candidate's résumé for a job.
type ResumeChunk struct {
	JobID       string
	CandidateID string
	Index       int
	Text        string
}

// ScoredChunk is a search hit.
type ScoredChunk struct {
	ResumeChunk
	Score float32
}

type CandidateIndex interface {
	InitCollection(ctx context.Context) error
	UpsertChunks(ctx context.Context, chunks []ResumeChunk, embeddings [][]float32) error
	Search(ctx context.Context, jobID string, embedding []float32, limit int) ([]ScoredChunk, error)
	DeleteCandidate(ctx context.Context, jobID, candidateID string) error
}

type qdrantIndex struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	log            *zap.Logger
}

func NewQdrantIndex(urlStr, apiKey, collectionName string, log *zap.Logger) (CandidateIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantIndex{
		client:         client,
		collectionName: collectionName,
		vectorSize:     embeddingSize,
		log:            logger.OrNop(log),
	}, nil
}

func (q *qdrantIndex) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.log.Info("qdrant collection ready", zap.String("collection", q.collectionName))
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.log.Info("qdrant collection created", zap.String("collection", q.collectionName))
	return nil
}

// UpsertChunks stores chunks under deterministic point ids, so re-indexing a
// candidate overwrites its earlier chunks.
func (q *qdrantIndex) UpsertChunks(ctx context.Context, chunks []ResumeChunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("got %d chunks but %d embeddings", len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(ChunkPointID(chunk).String()),
			Vectors: qdrant.NewVectors(embeddings[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"job_id":       chunk.JobID,
				"candidate_id": chunk.CandidateID,
				"chunk_index":  int64(chunk.Index),
				"text":         chunk.Text,
			}),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

func (q *qdrantIndex) Search(ctx context.Context, jobID string, embedding []float32, limit int) ([]ScoredChunk, error) {
	var filter *qdrant.Filter
	if jobID != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("job_id", jobID),
			},
		}
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	hits := make([]ScoredChunk, 0, len(points))
	for _, point := range points {
		payload := point.Payload
		hits = append(hits, ScoredChunk{
			ResumeChunk: ResumeChunk{
				JobID:       payloadString(payload, "job_id"),
				CandidateID: payloadString(payload, "candidate_id"),
				Index:       int(payload["chunk_index"].GetIntegerValue()),
				Text:        payloadString(payload, "text"),
			},
			Score: point.Score,
		})
	}

	return hits, nil
}

func (q *qdrantIndex) DeleteCandidate(ctx context.Context, jobID, candidateID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("job_id", jobID),
			qdrant.NewMatch("candidate_id", candidateID),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete candidate chunks: %w", err)
	}

	return nil
}

// ChunkPointID derives a stable point id from the chunk coordinates.
func ChunkPointID(c ResumeChunk) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s/%s/%d", c.JobID, c.CandidateID, c.Index)))
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}
