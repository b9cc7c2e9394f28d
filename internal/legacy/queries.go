package legacy

// The legacy store uses the same table and column names as the
// PostgreSQL schema. Rows are read in key order so batches are stable.
const (
	queryHorses = `SELECT id, name, sex, birth_date, sire, dam FROM horse ORDER BY id`

	queryJockeys = `SELECT id, name, birth_date, affiliation FROM jockey ORDER BY id`

	queryTrainers = `SELECT id, name, affiliation FROM trainer ORDER BY id`

	queryOwners = `SELECT id, name FROM owner ORDER BY id`

	queryRaceInfos = `
		SELECT id, date, course, race_number, name, distance,
			surface, weather, track_condition, class, horse_count
		FROM race_info ORDER BY id`

	queryRaceResults = `
		SELECT race_id, horse_number, bracket_number, horse_id, jockey_id, trainer_id, owner_id,
			order_of_finish, finish_time, odds, popularity, speed_figure, earning_money
		FROM race_result ORDER BY race_id, horse_number`

	queryPayoffs = `
		SELECT race_id, ticket_type, horse_numbers, amount, popularity
		FROM payoff ORDER BY race_id, ticket_type, horse_numbers`
)
