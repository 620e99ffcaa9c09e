package response

import (
	"time"

	"boxing-booking/internal/data/entity"
)

type BoxerResponse struct {
	BoxerID      string    `json:"boxer_id"`
	UserID       string    `json:"user_id"`
	Nickname     string    `json:"nickname"`
	Gender       string    `json:"gender"`
	Birthdate    string    `json:"birthdate"`
	Height       int       `json:"height"`
	Weight       int       `json:"weight"`
	City         *string   `json:"city"`
	GymID        *string   `json:"gym_id"`
	Phone        *string   `json:"phone"`
	RecordWins   int       `json:"record_wins"`
	RecordLosses int       `json:"record_losses"`
	RecordDraws  int       `json:"record_draws"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewBoxerResponse(b *entity.Boxer) *BoxerResponse {
	return &BoxerResponse{
		BoxerID:      b.BoxerID,
		UserID:       b.UserID,
		Nickname:     b.Nickname,
		Gender:       string(b.Gender),
		Birthdate:    b.Birthdate,
		Height:       b.Height,
		Weight:       b.Weight,
		City:         b.City,
		GymID:        b.GymID,
		Phone:        b.Phone,
		RecordWins:   b.RecordWins,
		RecordLosses: b.RecordLosses,
		RecordDraws:  b.RecordDraws,
		CreatedAt:    b.CreatedAt,
	}
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type GymResponse struct {
	GymID     string    `json:"gym_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Location  Location  `json:"location"`
	City      *string   `json:"city"`
	Phone     string    `json:"phone"`
	IconURL   *string   `json:"icon_url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func NewGymResponse(g *entity.Gym) *GymResponse {
	return &GymResponse{
		GymID:     g.GymID,
		UserID:    g.UserID,
		Name:      g.Name,
		Address:   g.Address,
		Location:  Location{Latitude: g.Latitude, Longitude: g.Longitude},
		City:      g.City,
		Phone:     g.Phone,
		IconURL:   g.IconURL,
		Status:    string(g.Status),
		CreatedAt: g.CreatedAt,
	}
}

type StatsResponse struct {
	BoxerCount int64 `json:"boxer_count"`
	GymCount   int64 `json:"gym_count"`
}
