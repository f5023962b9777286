package loan

// SubmitRequest is the member loan application body.
type SubmitRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required,max=1000"`
}

// ReviewRequest is the admin decision body.
type ReviewRequest struct {
	Status string `json:"status" validate:"required,loan_status"`
}
