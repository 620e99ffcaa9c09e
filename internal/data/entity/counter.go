package entity

const (
	CounterBoxers = "boxer_count"
	CounterGyms   = "gym_count"
)

type Counter struct {
	Name  string `db:"name"`
	Count int64  `db:"count"`
}
