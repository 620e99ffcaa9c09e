package entity

// RoleKind names the profile a platform identity acts through.
type RoleKind string

const (
	RoleBoxer RoleKind = "boxer"
	RoleGym   RoleKind = "gym"
)

// Role is implemented by exactly the two profile types. Role-gated operations
// take *Boxer or *Gym directly; Role exists for code that handles either.
type Role interface {
	Kind() RoleKind
	OwnerID() string
	ProfileID() string
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type Boxer struct {
	Base
	BoxerID      string  `db:"boxer_id"`
	UserID       string  `db:"user_id"`
	Nickname     string  `db:"nickname"`
	Gender       Gender  `db:"gender"`
	Birthdate    string  `db:"birthdate"`
	Height       int     `db:"height"`
	Weight       int     `db:"weight"`
	City         *string `db:"city"`
	GymID        *string `db:"gym_id"`
	Phone        *string `db:"phone"`
	RecordWins   int     `db:"record_wins"`
	RecordLosses int     `db:"record_losses"`
	RecordDraws  int     `db:"record_draws"`
}

func (b *Boxer) Kind() RoleKind    { return RoleBoxer }
func (b *Boxer) OwnerID() string   { return b.UserID }
func (b *Boxer) ProfileID() string { return b.BoxerID }

type GymStatus string

const (
	GymStatusPending  GymStatus = "pending"
	GymStatusApproved GymStatus = "approved"
	GymStatusRejected GymStatus = "rejected"
)

type Gym struct {
	Base
	GymID     string    `db:"gym_id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	Address   string    `db:"address"`
	Latitude  float64   `db:"latitude"`
	Longitude float64   `db:"longitude"`
	City      *string   `db:"city"`
	Phone     string    `db:"phone"`
	IconURL   *string   `db:"icon_url"`
	Status    GymStatus `db:"status"`
}

func (g *Gym) Kind() RoleKind    { return RoleGym }
func (g *Gym) OwnerID() string   { return g.UserID }
func (g *Gym) ProfileID() string { return g.GymID }

func (g *Gym) Approved() bool {
	return g.Status == GymStatusApproved
}
