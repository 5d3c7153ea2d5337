package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

const distanceField = "vector_distance"

// embeddingDoc stores Vector as firestore.Vector32 so FindNearest works
// against the stored chunks.
type embeddingDoc struct {
	DocumentID types.DocumentID   `firestore:"DocumentID"`
	ChunkIndex int                `firestore:"ChunkIndex"`
	ChunkText  string             `firestore:"ChunkText"`
	Vector     firestore.Vector32 `firestore:"Vector"`
	CreatedAt  time.Time          `firestore:"CreatedAt"`
}

func fromEmbeddingDoc(d *embeddingDoc) *model.Embedding {
	return &model.Embedding{
		DocumentID: d.DocumentID,
		ChunkIndex: d.ChunkIndex,
		ChunkText:  d.ChunkText,
		Vector:     []float32(d.Vector),
		CreatedAt:  d.CreatedAt,
	}
}

type embeddingRepository struct {
	client *firestore.Client
	prefix string
}

func newEmbeddingRepository(client *firestore.Client) *embeddingRepository {
	return &embeddingRepository{client: client}
}

func (r *embeddingRepository) collection() *firestore.CollectionRef {
	return collection(r.client, r.prefix, "embeddings")
}

func chunkDocID(docID types.DocumentID, index int) string {
	return fmt.Sprintf("%s__%06d", docID, index)
}

func (r *embeddingRepository) ReplaceForDocument(ctx context.Context, docID types.DocumentID, chunks []*model.Embedding) error {
	// Drop the old chunk set first so a shrinking document leaves no
	// stale tail chunks behind.
	iter := r.collection().Where("DocumentID", "==", string(docID)).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate old chunks", goerr.V("docID", docID))
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete old chunk", goerr.V("docID", docID))
		}
	}

	now := time.Now().UTC()
	for _, chunk := range chunks {
		if chunk.DocumentID != docID {
			return goerr.New("chunk belongs to another document",
				goerr.V("docID", docID), goerr.V("chunkDocID", chunk.DocumentID))
		}
		stored := &embeddingDoc{
			DocumentID: chunk.DocumentID,
			ChunkIndex: chunk.ChunkIndex,
			ChunkText:  chunk.ChunkText,
			Vector:     firestore.Vector32(chunk.Vector),
			CreatedAt:  now,
		}
		docRef := r.collection().Doc(chunkDocID(docID, chunk.ChunkIndex))
		if _, err := docRef.Set(ctx, stored); err != nil {
			return goerr.Wrap(err, "failed to store chunk",
				goerr.V("docID", docID), goerr.V("chunkIndex", chunk.ChunkIndex))
		}
	}
	return nil
}

func (r *embeddingRepository) ListByDocument(ctx context.Context, docID types.DocumentID) ([]*model.Embedding, error) {
	iter := r.collection().
		Where("DocumentID", "==", string(docID)).
		OrderBy("ChunkIndex", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	chunks := make([]*model.Embedding, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chunks", goerr.V("docID", docID))
		}
		var d embeddingDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chunk")
		}
		chunks = append(chunks, fromEmbeddingDoc(&d))
	}
	return chunks, nil
}

func (r *embeddingRepository) NearestNeighbors(ctx context.Context, vector []float32, k int) ([]*model.ChunkMatch, error) {
	if k <= 0 {
		return []*model.ChunkMatch{}, nil
	}

	vq := r.collection().FindNearest("Vector", firestore.Vector32(vector), k,
		firestore.DistanceMeasureCosine,
		&firestore.FindNearestOptions{DistanceResultField: distanceField},
	)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	matches := make([]*model.ChunkMatch, 0, k)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate vector search results")
		}

		var d embeddingDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chunk from vector search")
		}

		// Cosine distance is 1 - similarity.
		similarity := 0.0
		if raw, ok := snap.Data()[distanceField]; ok {
			if distance, ok := raw.(float64); ok {
				similarity = 1 - distance
			}
		}

		matches = append(matches, &model.ChunkMatch{
			Embedding:  fromEmbeddingDoc(&d),
			Similarity: similarity,
		})
	}
	return matches, nil
}

func (r *embeddingRepository) Count(ctx context.Context) (int, error) {
	snaps, err := r.collection().Documents(ctx).GetAll()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count chunks")
	}
	return len(snaps), nil
}
