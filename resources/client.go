// Package resources provides typed clients for the church administration
// resources served by the API.
package resources

// Client groups a typed collection per resource kind.
type Client struct {
	Ministries    *Collection[Ministry]
	Teams         *Collection[Team]
	MinistryTeams *Collection[Team]
	Members       *Collection[Member]
	Staff         *Collection[Staff]
	Users         *Collection[User]
	Families      *Collection[Family]
	Events        *Collection[Event]
}

func NewClient(doer Doer) *Client {
	path := func(name string) string {
		k, _ := LookupKind(name)
		return k.Path
	}
	return &Client{
		Ministries:    NewCollection[Ministry](doer, path("ministry")),
		Teams:         NewCollection[Team](doer, path("teams")),
		MinistryTeams: NewCollection[Team](doer, path("ministry-teams")),
		Members:       NewCollection[Member](doer, path("members")),
		Staff:         NewCollection[Staff](doer, path("staff")),
		Users:         NewCollection[User](doer, path("users")),
		Families:      NewCollection[Family](doer, path("families")),
		Events:        NewCollection[Event](doer, path("events")),
	}
}
