package models

// BookingRequest carries everything the create_booking tool collects from the customer.
type BookingRequest struct {
	Service         string `json:"service" validate:"required,min=2,max=200"`
	Date            string `json:"date" validate:"required"`
	Time            string `json:"time" validate:"required"`
	DurationHours   int    `json:"duration_hours" validate:"gte=0,lte=24"` // 0 means one hour
	CustomerName    string `json:"customer_name" validate:"required,personname"`
	CustomerContact string `json:"customer_contact" validate:"required,contact"`
	Branch          string `json:"branch"`
}

// BookingContext is the per-conversation configuration a booking runs under.
type BookingContext struct {
	CompanyID  int
	ProspectID int
	Slots      int
	SchedulingFlags
}

// BookingOutcome is the result of a confirmation attempt.
type BookingOutcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"` // metrics label on failure
}
