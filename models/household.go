package models

// Relationship edge types in a household graph.
const (
	EdgeParent    = "parent"
	EdgeSpouse    = "spouse"
	EdgeHousehold = "household"
)

type Household struct {
	HouseholdID string          `json:"household_id"`
	Members     []CensusRecord  `json:"members"`
	Graph       RelationshipMap `json:"graph"`
}

type RelationshipMap struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

type GraphNode struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}
