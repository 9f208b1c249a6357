package models

// DoctorSnapshot is the doctor profile frozen into an appointment at booking time.
// It is billing data: later profile edits never reach it.
type DoctorSnapshot struct {
	ID         string  `bson:"id" json:"_id"`
	Name       string  `bson:"name" json:"name"`
	Email      string  `bson:"email" json:"email"`
	Image      string  `bson:"image" json:"image"`
	Speciality string  `bson:"speciality" json:"speciality"`
	Degree     string  `bson:"degree" json:"degree"`
	Experience string  `bson:"experience" json:"experience"`
	About      string  `bson:"about" json:"about"`
	Fees       float64 `bson:"fees" json:"fees"`
	Address    Address `bson:"address" json:"address"`
}

// PatientSnapshot is the patient profile frozen into an appointment at booking time.
type PatientSnapshot struct {
	ID      string  `bson:"id" json:"_id"`
	Name    string  `bson:"name" json:"name"`
	Email   string  `bson:"email" json:"email"`
	Image   string  `bson:"image" json:"image"`
	Phone   string  `bson:"phone" json:"phone"`
	Address Address `bson:"address" json:"address"`
	Gender  string  `bson:"gender" json:"gender"`
	DOB     string  `bson:"dob" json:"dob"`
}

// NewDoctorSnapshot copies the public profile of d. The password and ledger are left out.
func NewDoctorSnapshot(d Doctor) DoctorSnapshot {
	return DoctorSnapshot{
		ID:         d.ID,
		Name:       d.Name,
		Email:      d.Email,
		Image:      d.Image,
		Speciality: d.Speciality,
		Degree:     d.Degree,
		Experience: d.Experience,
		About:      d.About,
		Fees:       d.Fees,
		Address:    d.Address,
	}
}

// NewPatientSnapshot copies u without its password.
func NewPatientSnapshot(u User) PatientSnapshot {
	return PatientSnapshot{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Image:   u.Image,
		Phone:   u.Phone,
		Address: u.Address,
		Gender:  u.Gender,
		DOB:     u.DOB,
	}
}
