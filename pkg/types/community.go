package types

// MaxKeyEntities bounds CommunitySummary.KeyEntities.
const MaxKeyEntities = 5

// CommunitySummary is the persisted description of one community.
type CommunitySummary struct {
	CommunityID int      `json:"community_id"`
	EntityCount int      `json:"entity_count"`
	Summary     string   `json:"summary"`
	KeyEntities []string `json:"key_entities"`
}

// CommunityAssignment maps entity identifiers to dense community ids.
type CommunityAssignment map[string]int

// NumCommunities returns the number of distinct community ids.
func (a CommunityAssignment) NumCommunities() int {
	seen := make(map[int]struct{}, len(a))
	for _, c := range a {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// Members groups entity ids by community, following the order of ids.
func (a CommunityAssignment) Members(ids []string) map[int][]string {
	members := make(map[int][]string)
	for _, id := range ids {
		c, ok := a[id]
		if !ok {
			continue
		}
		members[c] = append(members[c], id)
	}
	return members
}
