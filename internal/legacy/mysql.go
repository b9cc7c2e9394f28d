package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/yourusername/skylark/internal/models"
)

const defaultBatchSize = 500

// MySQLSource reads the legacy store through database/sql
type MySQLSource struct {
	db *sql.DB
}

// OpenMySQL connects to the legacy store. parseTime is forced on so
// DATE columns scan into time.Time.
func OpenMySQL(ctx context.Context, dsn string) (*MySQLSource, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(4)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return &MySQLSource{db: db}, nil
}

// NewMySQLSource wraps an already opened handle
func NewMySQLSource(db *sql.DB) *MySQLSource {
	return &MySQLSource{db: db}
}

// Close closes the underlying handle
func (s *MySQLSource) Close() error {
	return s.db.Close()
}

// Horses streams the horse table
func (s *MySQLSource) Horses(ctx context.Context, batchSize int, fn func([]models.Horse) error) error {
	return stream(ctx, s.db, queryHorses, batchSize, func(rows *sql.Rows) (models.Horse, error) {
		var (
			h              models.Horse
			sex, sire, dam sql.NullString
			birth          sql.NullTime
		)
		err := rows.Scan(&h.ID, &h.Name, &sex, &birth, &sire, &dam)
		h.Sex, h.Sire, h.Dam = sex.String, sire.String, dam.String
		h.BirthDate = nullTime(birth)
		return h, err
	}, fn)
}

// Jockeys streams the jockey table
func (s *MySQLSource) Jockeys(ctx context.Context, batchSize int, fn func([]models.Jockey) error) error {
	return stream(ctx, s.db, queryJockeys, batchSize, func(rows *sql.Rows) (models.Jockey, error) {
		var (
			j           models.Jockey
			birth       sql.NullTime
			affiliation sql.NullString
		)
		err := rows.Scan(&j.ID, &j.Name, &birth, &affiliation)
		j.BirthDate = nullTime(birth)
		j.Affiliation = affiliation.String
		return j, err
	}, fn)
}

// Trainers streams the trainer table
func (s *MySQLSource) Trainers(ctx context.Context, batchSize int, fn func([]models.Trainer) error) error {
	return stream(ctx, s.db, queryTrainers, batchSize, func(rows *sql.Rows) (models.Trainer, error) {
		var (
			t           models.Trainer
			affiliation sql.NullString
		)
		err := rows.Scan(&t.ID, &t.Name, &affiliation)
		t.Affiliation = affiliation.String
		return t, err
	}, fn)
}

// Owners streams the owner table
func (s *MySQLSource) Owners(ctx context.Context, batchSize int, fn func([]models.Owner) error) error {
	return stream(ctx, s.db, queryOwners, batchSize, func(rows *sql.Rows) (models.Owner, error) {
		var o models.Owner
		err := rows.Scan(&o.ID, &o.Name)
		return o, err
	}, fn)
}

// RaceInfos streams the race_info table
func (s *MySQLSource) RaceInfos(ctx context.Context, batchSize int, fn func([]models.RaceInfo) error) error {
	return stream(ctx, s.db, queryRaceInfos, batchSize, func(rows *sql.Rows) (models.RaceInfo, error) {
		var (
			r                                 models.RaceInfo
			name, surface, weather, condition sql.NullString
			raceNumber, class, horseCount     sql.NullInt64
		)
		err := rows.Scan(&r.ID, &r.Date, &r.Course, &raceNumber, &name, &r.Distance,
			&surface, &weather, &condition, &class, &horseCount)
		r.RaceNumber = int(raceNumber.Int64)
		r.Name, r.Surface, r.Weather, r.TrackCondition = name.String, surface.String, weather.String, condition.String
		r.Class = nullInt(class)
		r.HorseCount = int(horseCount.Int64)
		return r, err
	}, fn)
}

// RaceResults streams the race_result table
func (s *MySQLSource) RaceResults(ctx context.Context, batchSize int, fn func([]models.RaceResult) error) error {
	return stream(ctx, s.db, queryRaceResults, batchSize, func(rows *sql.Rows) (models.RaceResult, error) {
		var (
			r                              models.RaceResult
			bracket, jockey, trainer, pop  sql.NullInt64
			owner                          sql.NullString
			order, finishTime, odds, speed sql.NullFloat64
		)
		err := rows.Scan(&r.RaceID, &r.HorseNumber, &bracket, &r.HorseID, &jockey, &trainer, &owner,
			&order, &finishTime, &odds, &pop, &speed, &r.EarningMoney)
		r.BracketNumber = int(bracket.Int64)
		r.JockeyID, r.TrainerID, r.OwnerID = jockey.Int64, trainer.Int64, owner.String
		r.OrderOfFinish = nullFloat(order)
		r.FinishTime = nullFloat(finishTime)
		r.Odds = nullFloat(odds)
		r.Popularity = nullInt(pop)
		r.SpeedFigure = nullFloat(speed)
		return r, err
	}, fn)
}

// Payoffs streams the payoff table
func (s *MySQLSource) Payoffs(ctx context.Context, batchSize int, fn func([]models.Payoff) error) error {
	return stream(ctx, s.db, queryPayoffs, batchSize, func(rows *sql.Rows) (models.Payoff, error) {
		var (
			p   models.Payoff
			pop sql.NullInt64
		)
		err := rows.Scan(&p.RaceID, &p.TicketType, &p.HorseNumbers, &p.Amount, &pop)
		p.Popularity = nullInt(pop)
		return p, err
	}, fn)
}

// stream runs query and hands its rows to fn in batches
func stream[T any](ctx context.Context, db *sql.DB, query string, batchSize int,
	scan func(*sql.Rows) (T, error), fn func([]T) error) error {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query legacy store: %w", err)
	}
	defer rows.Close()

	batch := make([]T, 0, batchSize)
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return fmt.Errorf("scan legacy row: %w", err)
		}
		batch = append(batch, rec)
		if len(batch) >= batchSize {
			if err := fn(batch); err != nil {
				return err
			}
			batch = make([]T, 0, batchSize)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate legacy rows: %w", err)
	}
	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

func nullTime(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	return &n.Time
}

