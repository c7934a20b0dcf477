package events

const (
	StreamName   = "PATRON_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectCustomerCreated(customerID string) string {
	return "patron.customer." + customerID + ".created"
}

func SubjectObservationRecorded(customerID string) string {
	return "patron.customer." + customerID + ".observation"
}

func SubjectEvaluationScored(customerID string) string {
	return "patron.customer." + customerID + ".scored"
}
