package persist

import (
	"context"
	"time"
)

// RunRow is one completed run's final stats.
type RunRow struct {
	ID            int64
	ServerName    string
	Score         int
	Kills         int
	SurvivalTicks int64
	EndedAt       time.Time
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) Insert(ctx context.Context, row *RunRow) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO runs (server_name, score, kills, survival_ticks)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, ended_at`,
		row.ServerName, row.Score, row.Kills, row.SurvivalTicks,
	).Scan(&row.ID, &row.EndedAt)
}

// TopScores returns the best runs for this server, highest score first.
func (r *RunRepo) TopScores(ctx context.Context, serverName string, limit int) ([]RunRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, server_name, score, kills, survival_ticks, ended_at
		 FROM runs WHERE server_name = $1
		 ORDER BY score DESC LIMIT $2`,
		serverName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var row RunRow
		if err := rows.Scan(&row.ID, &row.ServerName, &row.Score, &row.Kills, &row.SurvivalTicks, &row.EndedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
