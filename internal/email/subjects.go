package email

const (
	subjectEstimateSummaryFmt = "Your renovation estimate (%s total)"
)
