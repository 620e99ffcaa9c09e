package request

// SlotFields is the editable part of a slot, shared by publish and update.
type SlotFields struct {
	Date      string `json:"date" validate:"required,date"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
	MaxBoxers *int   `json:"max_boxers" validate:"required,min=1,max=50"`
}

type PublishSlotRequest struct {
	SlotFields
}

type UpdateSlotRequest struct {
	SlotFields
}

type GymSlotListQuery struct {
	Status string
}

type SlotListQuery struct {
	DateFrom string `json:"date_from" validate:"omitempty,date"`
	DateTo   string `json:"date_to" validate:"omitempty,date"`
	GymID    string `json:"gym_id"`
	City     string `json:"city"`
}
