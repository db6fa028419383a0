package utils

// DefaultAmountForDuration maps an internship duration in months to the plan
// price in whole rupees.
func DefaultAmountForDuration(months int) int {
	switch months {
	case 1:
		return 399
	case 3:
		return 599
	default:
		return 999
	}
}
