package ledger

// loanTransitionAction builds the human-readable audit action for a loan
// review. Falls back to the member id label when the denormalized name was
// never set.
func loanTransitionAction(status LoanStatus, loan LoanRequest) string {
	who := loan.MemberName
	if who == "" {
		who = "member ID: " + loan.MemberID.String()
	}
	switch status {
	case LoanApproved:
		return "Approved loan request from " + who
	case LoanRejected:
		return "Rejected loan request from " + who
	default:
		return "Reset loan request from " + who + " to pending"
	}
}

func loanTransitionDetails(loan LoanRequest, status LoanStatus) map[string]any {
	return map[string]any{
		"loanId":    loan.ID.String(),
		"newStatus": string(status),
		"amount":    loan.Amount,
	}
}
