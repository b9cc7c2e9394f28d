package repository

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/skylark/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Horse     HorseRepository
	Jockey    JockeyRepository
	Trainer   TrainerRepository
	Owner     OwnerRepository
	RaceData  RaceDataRepository
	Features  FeatureStore
	Analytics AnalyticsEngine
}

// NewRepositories creates and returns all repository implementations
// sharing one pool.
func NewRepositories(db *database.DB, log *logrus.Logger) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Horse:     NewPostgresHorseRepository(db, log),
		Jockey:    NewPostgresJockeyRepository(db, log),
		Trainer:   NewPostgresTrainerRepository(db, log),
		Owner:     NewPostgresOwnerRepository(db, log),
		RaceData:  NewPostgresRaceDataRepository(db, log),
		Features:  NewPostgresFeatureStore(db, log),
		Analytics: NewPostgresAnalyticsEngine(db, log),
	}, nil
}
