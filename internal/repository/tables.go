package repository

import "github.com/yourusername/skylark/internal/models"

var horseTable = table[models.Horse]{
	name:    "horse",
	columns: []string{"id", "name", "sex", "birth_date", "sire", "dam"},
	key:     []string{"id"},
	values: func(h *models.Horse) []any {
		return []any{h.ID, h.Name, h.Sex, h.BirthDate, h.Sire, h.Dam}
	},
	fields: func(h *models.Horse) []any {
		return []any{&h.ID, &h.Name, &h.Sex, &h.BirthDate, &h.Sire, &h.Dam}
	},
}

var jockeyTable = table[models.Jockey]{
	name:    "jockey",
	columns: []string{"id", "name", "birth_date", "affiliation"},
	key:     []string{"id"},
	values: func(j *models.Jockey) []any {
		return []any{j.ID, j.Name, j.BirthDate, j.Affiliation}
	},
	fields: func(j *models.Jockey) []any {
		return []any{&j.ID, &j.Name, &j.BirthDate, &j.Affiliation}
	},
}

var trainerTable = table[models.Trainer]{
	name:    "trainer",
	columns: []string{"id", "name", "affiliation"},
	key:     []string{"id"},
	values: func(t *models.Trainer) []any {
		return []any{t.ID, t.Name, t.Affiliation}
	},
	fields: func(t *models.Trainer) []any {
		return []any{&t.ID, &t.Name, &t.Affiliation}
	},
}

var ownerTable = table[models.Owner]{
	name:    "owner",
	columns: []string{"id", "name"},
	key:     []string{"id"},
	values: func(o *models.Owner) []any {
		return []any{o.ID, o.Name}
	},
	fields: func(o *models.Owner) []any {
		return []any{&o.ID, &o.Name}
	},
}

var raceInfoTable = table[models.RaceInfo]{
	name: "race_info",
	columns: []string{
		"id", "date", "course", "race_number", "name", "distance",
		"surface", "weather", "track_condition", "class", "horse_count",
	},
	key: []string{"id"},
	values: func(r *models.RaceInfo) []any {
		return []any{
			r.ID, r.Date, r.Course, r.RaceNumber, r.Name, r.Distance,
			r.Surface, r.Weather, r.TrackCondition, r.Class, r.HorseCount,
		}
	},
	fields: func(r *models.RaceInfo) []any {
		return []any{
			&r.ID, &r.Date, &r.Course, &r.RaceNumber, &r.Name, &r.Distance,
			&r.Surface, &r.Weather, &r.TrackCondition, &r.Class, &r.HorseCount,
		}
	},
}

var raceResultTable = table[models.RaceResult]{
	name: "race_result",
	columns: []string{
		"race_id", "horse_number", "bracket_number", "horse_id", "jockey_id", "trainer_id", "owner_id",
		"order_of_finish", "finish_time", "odds", "popularity", "speed_figure", "earning_money",
	},
	key: []string{"race_id", "horse_number"},
	values: func(r *models.RaceResult) []any {
		return []any{
			r.RaceID, r.HorseNumber, r.BracketNumber, r.HorseID, r.JockeyID, r.TrainerID, r.OwnerID,
			r.OrderOfFinish, r.FinishTime, r.Odds, r.Popularity, r.SpeedFigure, r.EarningMoney,
		}
	},
	fields: func(r *models.RaceResult) []any {
		return []any{
			&r.RaceID, &r.HorseNumber, &r.BracketNumber, &r.HorseID, &r.JockeyID, &r.TrainerID, &r.OwnerID,
			&r.OrderOfFinish, &r.FinishTime, &r.Odds, &r.Popularity, &r.SpeedFigure, &r.EarningMoney,
		}
	},
}

var payoffTable = table[models.Payoff]{
	name:    "payoff",
	columns: []string{"race_id", "ticket_type", "horse_numbers", "amount", "popularity"},
	key:     []string{"race_id", "ticket_type", "horse_numbers"},
	values: func(p *models.Payoff) []any {
		return []any{p.RaceID, p.TicketType, p.HorseNumbers, p.Amount, p.Popularity}
	},
	fields: func(p *models.Payoff) []any {
		return []any{&p.RaceID, &p.TicketType, &p.HorseNumbers, &p.Amount, &p.Popularity}
	},
}

var featureTable = table[models.Feature]{
	name: "feature",
	columns: []string{
		"race_id", "horse_number", "horse_id",
		"speed_figure_last", "speed_figure_avg3", "speed_figure_avg5", "winner_avg",
		"speed_figure_avg_distance", "distance_avg", "earnings_avg", "computed_at",
	},
	key: []string{"race_id", "horse_number"},
	values: func(f *models.Feature) []any {
		return []any{
			f.RaceID, f.HorseNumber, f.HorseID,
			f.SpeedFigureLast, f.SpeedFigureAvg3, f.SpeedFigureAvg5, f.WinnerAvg,
			f.SpeedFigureAvgDistance, f.DistanceAvg, f.EarningsAvg, f.ComputedAt,
		}
	},
	fields: func(f *models.Feature) []any {
		return []any{
			&f.RaceID, &f.HorseNumber, &f.HorseID,
			&f.SpeedFigureLast, &f.SpeedFigureAvg3, &f.SpeedFigureAvg5, &f.WinnerAvg,
			&f.SpeedFigureAvgDistance, &f.DistanceAvg, &f.EarningsAvg, &f.ComputedAt,
		}
	},
}
