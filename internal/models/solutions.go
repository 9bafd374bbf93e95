package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// StoredSolution is a row of the solutions table. Result is nil when the request had no
// complete merge order.
type StoredSolution struct {
	SolutionID   int           `json:"solution_id"`
	RequestKey   string        `json:"request_key"`
	Edition      string        `json:"edition"`
	Mode         Mode          `json:"mode"`
	Solvable     bool          `json:"solvable"`
	TotalCostLvl int           `json:"total_cost_lvl"`
	TotalCostXp  float64       `json:"total_cost_xp"`
	Request      SolveRequest  `json:"request"`
	Result       *SearchResult `json:"result"`
	CreatedAt    time.Time     `json:"created_at"`
}

func editionName(settings Settings) string {
	if settings.UseBedrock {
		return "bedrock"
	}
	return "java"
}

func UpsertSolution(db *sql.DB, requestKey string, request SolveRequest, result *SearchResult) (int, error) {
	serialisedRequest, err := json.Marshal(request)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal solve request")
		return -1, err
	}

	var serialisedResult sql.NullString
	var totalLvl sql.NullInt64
	var totalXp sql.NullFloat64
	if result != nil {
		b, err := json.Marshal(result)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal search result")
			return -1, err
		}
		serialisedResult = sql.NullString{String: string(b), Valid: true}
		totalLvl = sql.NullInt64{Int64: int64(result.CostLvl), Valid: true}
		totalXp = sql.NullFloat64{Float64: result.CostXp, Valid: true}
	}

	query := `INSERT INTO solutions (
			request_key,
			edition,
			mode,
			solvable,
			total_cost_lvl,
			total_cost_xp,
			request,
			result
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (request_key) DO UPDATE SET
			solvable = $4,
			total_cost_lvl = $5,
			total_cost_xp = $6,
			result = $8
		returning solution_id;`
	var solutionID int
	err = db.QueryRow(
		query,
		requestKey,
		editionName(request.Settings),
		request.Settings.Mode,
		result != nil,
		totalLvl,
		totalXp,
		string(serialisedRequest),
		serialisedResult,
	).Scan(&solutionID)
	if err != nil {
		return -1, err
	}

	return solutionID, nil
}

const selectSolution = `
	SELECT
		solution_id,
		request_key,
		edition,
		mode,
		solvable,
		total_cost_lvl,
		total_cost_xp,
		request,
		result,
		created_at
	FROM solutions`

func scanSolution(row *sql.Row) (*StoredSolution, error) {
	var solution StoredSolution
	var totalLvl sql.NullInt64
	var totalXp sql.NullFloat64
	var request []byte
	var result []byte

	err := row.Scan(
		&solution.SolutionID,
		&solution.RequestKey,
		&solution.Edition,
		&solution.Mode,
		&solution.Solvable,
		&totalLvl,
		&totalXp,
		&request,
		&result,
		&solution.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if totalLvl.Valid {
		solution.TotalCostLvl = int(totalLvl.Int64)
	}
	if totalXp.Valid {
		solution.TotalCostXp = totalXp.Float64
	}

	if err := json.Unmarshal(request, &solution.Request); err != nil {
		return nil, err
	}
	if len(result) > 0 {
		solution.Result = &SearchResult{}
		if err := json.Unmarshal(result, solution.Result); err != nil {
			return nil, err
		}
	}

	return &solution, nil
}

// GetSolutionByKey returns nil, nil when no solution has been stored for the key.
func GetSolutionByKey(db *sql.DB, requestKey string) (*StoredSolution, error) {
	row := db.QueryRow(selectSolution+" WHERE request_key = $1;", requestKey)
	return scanSolution(row)
}

func GetSolutionByID(db *sql.DB, solutionID int) (*StoredSolution, error) {
	row := db.QueryRow(selectSolution+" WHERE solution_id = $1;", solutionID)
	return scanSolution(row)
}

func PurgeSolutions(db *sql.DB) error {
	_, err := db.Exec("TRUNCATE solutions;")
	if err != nil {
		return err
	}

	return nil
}
