package place

// StatusPublish is the default public status.
const StatusPublish = "publish"

// ReadPolicy decides whether a place may be returned to the caller.
type ReadPolicy struct {
	public map[string]struct{}
}

// NewReadPolicy creates a policy allowing the given statuses.
// No statuses means only published places are readable.
func NewReadPolicy(publicStatuses ...string) ReadPolicy {
	if len(publicStatuses) == 0 {
		publicStatuses = []string{StatusPublish}
	}
	public := make(map[string]struct{}, len(publicStatuses))
	for _, s := range publicStatuses {
		public[s] = struct{}{}
	}
	return ReadPolicy{public: public}
}

// CanRead reports whether p is readable.
func (r ReadPolicy) CanRead(p *Place, _ Context) bool {
	if p.PostType != "" && p.PostType != PostType {
		return false
	}
	_, ok := r.public[p.Status]
	return ok
}
