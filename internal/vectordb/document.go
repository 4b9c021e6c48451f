package vectordb

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DocumentType categorizes the kind of source document a passage came from.
type DocumentType string

const (
	DocTypePolicy       DocumentType = "policy"
	DocTypeCompliance   DocumentType = "compliance"
	DocTypeBestPractice DocumentType = "best_practice"
	DocTypeExample      DocumentType = "example"
	DocTypeThreat       DocumentType = "threat"
	DocTypeTemplate     DocumentType = "template"
	DocTypeIndustry     DocumentType = "industry_specific"
	DocTypeProcess      DocumentType = "process"
	DocTypeGeneric      DocumentType = "generic"
)

// Document represents one indexed passage of source text.
type Document struct {
	ID       string
	Content  string
	Metadata DocumentMetadata
}

// DocumentMetadata holds structured information about a passage.
type DocumentMetadata struct {
	Source      string // path of the originating file
	FileName    string
	DocType     DocumentType
	SectionType string // training template section this passage belongs to, if known
	ChunkID     int
	ChunkTotal  int
}

// Identity returns the deduplication key for a passage: source path plus
// chunk id, or a content hash when the source is unknown.
func (d Document) Identity() string {
	if d.Metadata.Source != "" {
		return fmt.Sprintf("%s#%d", d.Metadata.Source, d.Metadata.ChunkID)
	}
	sum := sha256.Sum256([]byte(d.Content))
	return hex.EncodeToString(sum[:])
}

// SearchResult pairs a passage with its similarity score.
type SearchResult struct {
	Document   Document
	Similarity float32
}

// SearchFilter allows narrowing search results by metadata fields.
type SearchFilter struct {
	DocType     *DocumentType
	SectionType *string
}
