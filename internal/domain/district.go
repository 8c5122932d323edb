package domain

// A named vertex of the location graph.
// Ids are 1-based; the routing core addresses districts by id-1.
type District struct {
	ID      int
	Name    string
	Geocode string
}

// Directed, weighted connection between two districts.
// An edge A->B says nothing about B->A.
type Edge struct {
	OriginID      int
	DestinationID int
	Distance      int
}
