package domain

// FeedEntry is a completed session of a followed user together with the
// owner's public identity.
type FeedEntry struct {
	Session *SleepSession
	Owner   UserRef
}
