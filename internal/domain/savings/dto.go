package savings

// TransactionRequest is the member deposit/withdraw request body.
type TransactionRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// AdjustmentRequest is the admin savings adjustment request body.
type AdjustmentRequest struct {
	MemberID string `json:"member_id" validate:"required,uuid"`
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	Kind     string `json:"kind" validate:"required,txn_kind"`
	Note     string `json:"note" validate:"max=500"`
}
