package response

import (
	"time"

	"boxing-booking/internal/data/entity"
)

type SlotResponse struct {
	SlotID          string    `json:"slot_id"`
	GymID           string    `json:"gym_id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	MaxBoxers       int       `json:"max_boxers"`
	CurrentBookings int       `json:"current_bookings"`
	AvailableSpots  int       `json:"available_spots"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewSlotResponse(s *entity.Slot) SlotResponse {
	return SlotResponse{
		SlotID:          s.SlotID,
		GymID:           s.GymID,
		Date:            s.Date,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		MaxBoxers:       s.MaxBoxers,
		CurrentBookings: s.CurrentBookings,
		AvailableSpots:  s.AvailableSpots(),
		Status:          string(s.Status),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

type GymSlotItem struct {
	SlotResponse
	CanModify bool `json:"can_modify"`
}

type GymSlotListResponse struct {
	Slots []GymSlotItem `json:"slots"`
	Total int           `json:"total"`
}

type GymSummary struct {
	GymID   string  `json:"gym_id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	City    *string `json:"city"`
	Phone   string  `json:"phone,omitempty"`
	IconURL *string `json:"icon_url,omitempty"`
}

func NewGymSummary(g *entity.Gym) GymSummary {
	return GymSummary{
		GymID:   g.GymID,
		Name:    g.Name,
		Address: g.Address,
		City:    g.City,
		Phone:   g.Phone,
		IconURL: g.IconURL,
	}
}

type AvailableSlotItem struct {
	SlotID          string     `json:"slot_id"`
	Gym             GymSummary `json:"gym"`
	Date            string     `json:"date"`
	StartTime       string     `json:"start_time"`
	EndTime         string     `json:"end_time"`
	MaxBoxers       int        `json:"max_boxers"`
	CurrentBookings int        `json:"current_bookings"`
	AvailableSpots  int        `json:"available_spots"`
	Status          string     `json:"status"`
	IsBooked        bool       `json:"is_booked"`
}

type AvailableSlotListResponse struct {
	Slots []AvailableSlotItem `json:"slots"`
	Total int                 `json:"total"`
}

// SlotBrief is the slot as embedded in booking views.
type SlotBrief struct {
	SlotID          string `json:"slot_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	MaxBoxers       int    `json:"max_boxers"`
	CurrentBookings int    `json:"current_bookings"`
	AvailableSpots  int    `json:"available_spots"`
	Status          string `json:"status"`
	IsBooked        *bool  `json:"is_booked,omitempty"`
}

func NewSlotBrief(s *entity.Slot) SlotBrief {
	return SlotBrief{
		SlotID:          s.SlotID,
		Date:            s.Date,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		MaxBoxers:       s.MaxBoxers,
		CurrentBookings: s.CurrentBookings,
		AvailableSpots:  s.AvailableSpots(),
		Status:          string(s.Status),
	}
}

type BookedBoxer struct {
	BoxerID     string    `json:"boxer_id"`
	Nickname    string    `json:"nickname"`
	Gender      string    `json:"gender"`
	Age         int       `json:"age"`
	Height      int       `json:"height"`
	Weight      int       `json:"weight"`
	City        *string   `json:"city"`
	BookingTime time.Time `json:"booking_time"`
}

type SlotBookingsResponse struct {
	Slot   SlotBrief     `json:"slot"`
	Gym    GymSummary    `json:"gym"`
	Boxers []BookedBoxer `json:"boxers"`
	Total  int           `json:"total"`
}
