package analytics

import "github.com/rabbikazmi/HackingDelhi/models"

// BuildHousehold assembles a household view and its relationship graph.
//
// Parent and spouse references that resolve inside the household become
// edges. When none resolve, members hang off the first head in a star. A
// household without a head has no edges.
func BuildHousehold(householdID string, members []models.CensusRecord) models.Household {
	if members == nil {
		members = []models.CensusRecord{}
	}
	h := models.Household{
		HouseholdID: householdID,
		Members:     members,
		Graph: models.RelationshipMap{
			Nodes: make([]models.GraphNode, 0, len(members)),
			Edges: []models.GraphEdge{},
		},
	}

	inHousehold := make(map[string]bool, len(members))
	for _, m := range members {
		inHousehold[m.RecordID] = true
		h.Graph.Nodes = append(h.Graph.Nodes, models.GraphNode{ID: m.RecordID, Name: m.Name, Relation: m.Relation})
	}

	spouses := make(map[[2]string]bool)
	for _, m := range members {
		if m.ParentID != "" && m.ParentID != m.RecordID && inHousehold[m.ParentID] {
			h.Graph.Edges = append(h.Graph.Edges, models.GraphEdge{Source: m.ParentID, Target: m.RecordID, Type: models.EdgeParent})
		}
		if m.SpouseID != "" && m.SpouseID != m.RecordID && inHousehold[m.SpouseID] {
			pair := [2]string{m.RecordID, m.SpouseID}
			if pair[0] > pair[1] {
				pair[0], pair[1] = pair[1], pair[0]
			}
			if !spouses[pair] {
				spouses[pair] = true
				h.Graph.Edges = append(h.Graph.Edges, models.GraphEdge{Source: pair[0], Target: pair[1], Type: models.EdgeSpouse})
			}
		}
	}
	if len(h.Graph.Edges) > 0 {
		return h
	}

	headIdx := -1
	for i, m := range members {
		if m.Relation == "head" {
			headIdx = i
			break
		}
	}
	if headIdx < 0 {
		return h
	}
	head := members[headIdx]
	for i, m := range members {
		if i == headIdx {
			continue
		}
		h.Graph.Edges = append(h.Graph.Edges, models.GraphEdge{Source: head.RecordID, Target: m.RecordID, Type: models.EdgeHousehold})
	}
	return h
}
