package legacy

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMySQLRejectsMalformedDSN(t *testing.T) {
	_, err := OpenMySQL(context.Background(), "user:pass@tcp(localhost:3306")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse mysql dsn")
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, nullInt(sql.NullInt64{}))
	assert.Equal(t, 3, *nullInt(sql.NullInt64{Int64: 3, Valid: true}))

	assert.Nil(t, nullFloat(sql.NullFloat64{}))
	assert.Equal(t, 92.5, *nullFloat(sql.NullFloat64{Float64: 92.5, Valid: true}))

	when := time.Date(2019, 4, 7, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, nullTime(sql.NullTime{}))
	assert.Equal(t, when, *nullTime(sql.NullTime{Time: when, Valid: true}))
}

func TestQueriesReadInKeyOrder(t *testing.T) {
	assert.Contains(t, queryRaceResults, "ORDER BY race_id, horse_number")
	assert.Contains(t, queryPayoffs, "ORDER BY race_id, ticket_type, horse_numbers")
	for _, q := range []string{queryHorses, queryJockeys, queryTrainers, queryOwners, queryRaceInfos} {
		assert.Contains(t, q, "ORDER BY id")
	}
}
