package apperr

// FetchError reports a failed feed retrieval: a transport error, a
// timeout, or a non-success HTTP status. It is recovered at feed
// granularity; the rest of the run continues.
type FetchError struct {
	FeedName   string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return "fetch " + e.FeedName + ": " + e.Err.Error()
	}
	return "fetch " + e.FeedName + ": unexpected status"
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewFetch(feedName, url string, err error) *FetchError {
	return &FetchError{FeedName: feedName, URL: url, Err: err}
}

func NewFetchStatus(feedName, url string, status int) *FetchError {
	return &FetchError{FeedName: feedName, URL: url, StatusCode: status}
}

// ParseError reports a payload that is not a recognizable feed format.
// Recovered at feed granularity.
type ParseError struct {
	FeedName string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "parse " + e.FeedName + ": " + e.Err.Error()
	}
	return "parse " + e.FeedName + ": invalid feed"
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func NewParse(feedName string, err error) *ParseError {
	return &ParseError{FeedName: feedName, Err: err}
}

// NormalizeError reports one entry that could not be turned into a Story.
// The entry is dropped; the feed and the run continue.
type NormalizeError struct {
	FeedName string
	GUID     string
	Err      error
}

func (e *NormalizeError) Error() string {
	msg := "normalize entry from " + e.FeedName
	if e.GUID != "" {
		msg += " (" + e.GUID + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NormalizeError) Unwrap() error {
	return e.Err
}

func NewNormalize(feedName, guid string, err error) *NormalizeError {
	return &NormalizeError{FeedName: feedName, GUID: guid, Err: err}
}

// IndexTransportError reports that the document index itself was
// unreachable. Fatal for the batch it interrupted; never retried here.
type IndexTransportError struct {
	Op  string
	Err error
}

func (e *IndexTransportError) Error() string {
	if e.Err != nil {
		return "index " + e.Op + ": " + e.Err.Error()
	}
	return "index " + e.Op + ": transport failure"
}

func (e *IndexTransportError) Unwrap() error {
	return e.Err
}

func NewIndexTransport(op string, err error) *IndexTransportError {
	return &IndexTransportError{Op: op, Err: err}
}
