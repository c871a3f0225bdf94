package navigation

// CurrentNavigation supplies the current navigation key for each level.
// Lookups are cheap and never fail; a missing key means none is set.
type CurrentNavigation interface {
	CurrentNavigationFor(level int) (string, bool)
}

// Request is the request-scoped navigation state. It is not safe for
// concurrent writes and is meant to live for the duration of one request.
type Request struct {
	path    string
	current map[int]string
}

// NewRequest creates a request for the given path. The path is only used
// when auto highlighting is enabled.
func NewRequest(path string) *Request {
	return &Request{
		path:    path,
		current: map[int]string{},
	}
}

// Path returns the request path.
func (r *Request) Path() string {
	if r == nil {
		return ""
	}

	return r.path
}

// CurrentNavigationFor returns the key set as current for level.
func (r *Request) CurrentNavigationFor(level int) (string, bool) {
	if r == nil {
		return "", false
	}

	key, ok := r.current[level]
	return key, ok
}

// SetCurrentNavigation records key as the current navigation for level.
func (r *Request) SetCurrentNavigation(level int, key string) {
	if r.current == nil {
		r.current = map[int]string{}
	}

	r.current[level] = key
}
