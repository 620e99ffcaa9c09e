package request

type CreateBoxerRequest struct {
	Nickname     string  `json:"nickname" validate:"required"`
	Gender       string  `json:"gender" validate:"required,oneof=male female"`
	Birthdate    string  `json:"birthdate" validate:"required,date"`
	Height       *int    `json:"height" validate:"required,min=100,max=250"`
	Weight       *int    `json:"weight" validate:"required,min=30,max=200"`
	City         *string `json:"city"`
	GymID        *string `json:"gym_id"`
	Phone        *string `json:"phone"`
	RecordWins   int     `json:"record_wins" validate:"min=0"`
	RecordLosses int     `json:"record_losses" validate:"min=0"`
	RecordDraws  int     `json:"record_draws" validate:"min=0"`
}

type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

type CreateGymRequest struct {
	Name     string           `json:"name" validate:"required"`
	Address  string           `json:"address" validate:"required"`
	Location *LocationRequest `json:"location" validate:"required"`
	City     *string          `json:"city"`
	Phone    string           `json:"phone" validate:"required"`
	IconURL  *string          `json:"icon_url"`
}
