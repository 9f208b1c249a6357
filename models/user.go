package models

// User is a patient account. Only the fields the booking core snapshots are modelled.
type User struct {
	ID       string  `bson:"id" json:"_id"`
	Name     string  `bson:"name" json:"name"`
	Email    string  `bson:"email" json:"email"`
	Password string  `bson:"password" json:"-"`
	Image    string  `bson:"image" json:"image"`
	Phone    string  `bson:"phone" json:"phone"`
	Address  Address `bson:"address" json:"address"`
	Gender   string  `bson:"gender" json:"gender"`
	DOB      string  `bson:"dob" json:"dob"`
}
