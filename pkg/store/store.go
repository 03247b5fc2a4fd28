// Package store provides persistence for saved architecture diagrams.
//
// This package defines the Store interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for production deployments
//
// # Architecture
//
// A Diagram couples a raw architecture model with identity and timestamps.
// The stored model is the RAW input, not the sanitized or positioned form:
// sanitization and layout are deterministic, so derived forms are recomputed
// (and cached) on read rather than persisted.
//
// # Usage
//
//	st := memory.NewStore()
//	d := store.NewDiagram("prod-landing-zone", m)
//	if err := st.Create(ctx, d); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cloudplot/cloudplot/pkg/model"
)

// Diagram is a stored architecture model with identity and timestamps.
type Diagram struct {
	ID        string                  `json:"id" bson:"_id"`
	Name      string                  `json:"name" bson:"name"`
	Model     model.ArchitectureModel `json:"model" bson:"model"`
	CreatedAt time.Time               `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time               `json:"updated_at" bson:"updated_at"`
}

// NewDiagram creates a diagram with a fresh ID and timestamps.
func NewDiagram(name string, m model.ArchitectureModel) *Diagram {
	now := time.Now().UTC()
	return &Diagram{
		ID:        uuid.NewString(),
		Name:      name,
		Model:     m,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store is the interface for diagram storage backends.
type Store interface {
	// Create stores a new diagram. Fails if the ID already exists.
	Create(ctx context.Context, d *Diagram) error

	// Get retrieves a diagram by ID.
	Get(ctx context.Context, id string) (*Diagram, error)

	// Update replaces a stored diagram's name and model, bumping UpdatedAt.
	Update(ctx context.Context, d *Diagram) error

	// Delete removes a diagram.
	Delete(ctx context.Context, id string) error

	// List returns all diagrams, most recently updated first.
	List(ctx context.Context) ([]*Diagram, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
