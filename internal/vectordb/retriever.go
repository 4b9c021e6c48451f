package vectordb

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Retriever wraps a VectorStore with the query patterns the dialog pipeline
// needs: single-query search and multi-query aggregation with deduplication.
type Retriever struct {
	store VectorStore
}

// NewRetriever creates a Retriever over the given store.
func NewRetriever(store VectorStore) *Retriever {
	return &Retriever{store: store}
}

// Retrieve performs a single similarity search and returns the k most
// relevant passages. It fails only when no store was attached, which is a
// programming error; an empty index simply yields no results.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]Document, error) {
	if r.store == nil {
		return nil, fmt.Errorf("vector store has not been initialized")
	}

	results, err := r.store.Search(ctx, query, k, nil)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, len(results))
	for i, res := range results {
		docs[i] = res.Document
	}
	return docs, nil
}

// RetrieveMulti issues each query independently and aggregates the results.
// A failure on one query is logged and skipped so the remaining queries still
// contribute. Passages are deduplicated by identity in first-seen order, and
// the aggregate is capped at 2*topKPerQuery to bound prompt size downstream.
func (r *Retriever) RetrieveMulti(ctx context.Context, queries []string, topKPerQuery int) ([]Document, error) {
	if r.store == nil {
		return nil, fmt.Errorf("vector store has not been initialized")
	}
	if topKPerQuery <= 0 {
		topKPerQuery = 3
	}

	var all []Document
	seen := make(map[string]bool)

	for _, query := range queries {
		docs, err := r.Retrieve(ctx, query, topKPerQuery)
		if err != nil {
			log.Printf("retriever: query %q failed, skipping: %v", query, err)
			continue
		}

		for _, doc := range docs {
			id := doc.Identity()
			if seen[id] {
				continue
			}
			seen[id] = true
			all = append(all, doc)
		}
	}

	if max := topKPerQuery * 2; len(all) > max {
		all = all[:max]
	}
	return all, nil
}

// ContextText renders passages into a single prompt-ready block, truncated to
// maxLen runes. A maxLen of 0 means no truncation.
func ContextText(docs []Document, maxLen int) string {
	var sb strings.Builder
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(doc.Content)
	}

	text := sb.String()
	if maxLen > 0 {
		if runes := []rune(text); len(runes) > maxLen {
			return string(runes[:maxLen]) + "..."
		}
	}
	return text
}
