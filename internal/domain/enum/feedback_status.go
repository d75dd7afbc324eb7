package enum

// FeedbackStatus tracks how far a piece of customer feedback has been handled
type FeedbackStatus string

const (
	FeedbackStatusNew      FeedbackStatus = "new"
	FeedbackStatusReviewed FeedbackStatus = "reviewed"
	FeedbackStatusResolved FeedbackStatus = "resolved"
)

var feedbackStatuses = []FeedbackStatus{
	FeedbackStatusNew,
	FeedbackStatusReviewed,
	FeedbackStatusResolved,
}

func FeedbackStatuses() []FeedbackStatus {
	return append([]FeedbackStatus(nil), feedbackStatuses...)
}

func (s FeedbackStatus) String() string {
	return string(s)
}

func (s FeedbackStatus) IsValid() bool {
	_, ok := match(feedbackStatuses, string(s))
	return ok
}

func ParseFeedbackStatus(s string) (FeedbackStatus, bool) {
	return match(feedbackStatuses, s)
}

func (s *FeedbackStatus) UnmarshalJSON(data []byte) error {
	return unmarshal(data, feedbackStatuses, "feedback status", s)
}
