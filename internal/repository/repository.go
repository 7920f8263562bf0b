// Package repository provides PostgreSQL persistence for decisions,
// training data and odds history.
package repository

import (
	"fmt"

	"github.com/yourusername/sportcast/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Decision       DecisionRepository
	TrainingSample TrainingSampleRepository
	OddsSnapshot   OddsSnapshotRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Decision:       NewPostgresDecisionRepository(db),
		TrainingSample: NewPostgresTrainingSampleRepository(db),
		OddsSnapshot:   NewPostgresOddsSnapshotRepository(db),
	}, nil
}
