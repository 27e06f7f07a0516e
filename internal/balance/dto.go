package balance

// SummaryResponse is one member's balance position within a group
type SummaryResponse struct {
	MemberID    string             `json:"member_id"`
	Username    string             `json:"username,omitempty"`
	TotalPaid   float64            `json:"total_paid"`
	TotalOwed   float64            `json:"total_owed"`
	TotalIsOwed float64            `json:"total_is_owed"`
	NetBalance  float64            `json:"net_balance"`
	OwedTo      map[string]float64 `json:"owed_to"`
	OwedBy      map[string]float64 `json:"owed_by"`
}

func toSummaryResponse(s *Summary, username string) *SummaryResponse {
	return &SummaryResponse{
		MemberID:    s.MemberID,
		Username:    username,
		TotalPaid:   s.TotalPaid,
		TotalOwed:   s.TotalOwed,
		TotalIsOwed: s.TotalIsOwed,
		NetBalance:  s.NetBalance,
		OwedTo:      s.OwedTo,
		OwedBy:      s.OwedBy,
	}
}
