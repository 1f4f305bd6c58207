package models

// RelSelf is the relation name of a representation's canonical link.
const RelSelf = "self"

// Link is a hypermedia link embedded in a representation.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// CarRepresentation is the response view of a Car: every Car field plus links.
type CarRepresentation struct {
	Car
	Links []Link `json:"links"`
}

// NewCarRepresentation wraps car with its self link.
func NewCarRepresentation(car Car, self Link) CarRepresentation {
	return CarRepresentation{
		Car:   car,
		Links: []Link{self},
	}
}

// SelfLink returns the self link, or false when none is present.
func (r CarRepresentation) SelfLink() (Link, bool) {
	for _, link := range r.Links {
		if link.Rel == RelSelf {
			return link, true
		}
	}
	return Link{}, false
}
