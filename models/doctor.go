package models

import "time"

// Address is the two-line postal address shown on a doctor's profile.
type Address struct {
	Line1 string `bson:"line1" json:"line1"`
	Line2 string `bson:"line2" json:"line2"`
}

// Doctor is the bookable practitioner. SlotsBooked is the slot ledger:
// date key ("5_3_2025") -> booked slot times ("10:00 AM").
type Doctor struct {
	ID          string              `bson:"id" json:"_id"`
	Name        string              `bson:"name" json:"name"`
	Email       string              `bson:"email" json:"email"`
	Password    string              `bson:"password" json:"-"`
	Image       string              `bson:"image" json:"image"`
	Speciality  string              `bson:"speciality" json:"speciality"`
	Degree      string              `bson:"degree" json:"degree"`
	Experience  string              `bson:"experience" json:"experience"`
	About       string              `bson:"about" json:"about"`
	Available   bool                `bson:"available" json:"available"`
	Fees        float64             `bson:"fees" json:"fees"`
	Address     Address             `bson:"address" json:"address"`
	SlotsBooked map[string][]string `bson:"slotsBooked" json:"slots_booked"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// IsSlotBooked reports whether the ledger holds time under date.
func (d *Doctor) IsSlotBooked(date, slotTime string) bool {
	for _, t := range d.SlotsBooked[date] {
		if t == slotTime {
			return true
		}
	}
	return false
}
