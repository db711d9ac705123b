package recommend

import (
	"sort"

	"newsagent/internal/domain/entity"
)

// Diversity slot shares.
const (
	interestShare = 0.7
	relatedShare  = 0.2
)

// diversify selects up to limit items from score-sorted candidates so that
// no single category dominates the result. The algorithm is deterministic
// for a fixed input ordering.
func diversify(items []entity.CandidateItem, interests []entity.Category, limit int) []entity.CandidateItem {
	if limit <= 0 || len(items) == 0 {
		return nil
	}
	if limit > len(items) {
		limit = len(items)
	}

	interestSet := make(map[entity.Category]struct{}, len(interests))
	for _, cat := range interests {
		interestSet[cat] = struct{}{}
	}

	var interestBucket, relatedBucket, exploration []entity.CandidateItem
	for _, item := range items {
		switch {
		case inSet(interestSet, item.Category):
			interestBucket = append(interestBucket, item)
		case item.Category.RelatedToAny(interests):
			relatedBucket = append(relatedBucket, item)
		default:
			exploration = append(exploration, item)
		}
	}

	interestQuota := int(float64(limit) * interestShare)
	relatedQuota := int(float64(limit) * relatedShare)
	explorationQuota := limit - interestQuota - relatedQuota

	used := make(map[string]struct{}, limit)
	selected := make([]entity.CandidateItem, 0, limit)

	take := func(item entity.CandidateItem) {
		used[item.ID] = struct{}{}
		selected = append(selected, item)
	}

	// Interest slots are split evenly across the user's interest
	// categories, then any shortfall is backfilled by score.
	if len(interests) > 0 && interestQuota > 0 {
		perCategory := interestQuota / len(interests)
		for _, cat := range interests {
			taken := 0
			for _, item := range interestBucket {
				if taken >= perCategory {
					break
				}
				if item.Category != cat {
					continue
				}
				if _, ok := used[item.ID]; ok {
					continue
				}
				take(item)
				taken++
			}
		}
		for _, item := range interestBucket {
			if len(selected) >= interestQuota {
				break
			}
			if _, ok := used[item.ID]; ok {
				continue
			}
			take(item)
		}
	}

	for _, item := range relatedBucket {
		if relatedQuota <= 0 {
			break
		}
		if _, ok := used[item.ID]; ok {
			continue
		}
		take(item)
		relatedQuota--
	}

	// Exploration favors broadly popular items over personally scored ones.
	byPopularity := make([]entity.CandidateItem, len(exploration))
	copy(byPopularity, exploration)
	sort.SliceStable(byPopularity, func(i, j int) bool {
		if byPopularity[i].Popularity != byPopularity[j].Popularity {
			return byPopularity[i].Popularity > byPopularity[j].Popularity
		}
		return byPopularity[i].ID < byPopularity[j].ID
	})
	for _, item := range byPopularity {
		if explorationQuota <= 0 || len(selected) >= limit {
			break
		}
		if _, ok := used[item.ID]; ok {
			continue
		}
		take(item)
		explorationQuota--
	}

	// Global backfill from whatever remains, in score order.
	for _, item := range items {
		if len(selected) >= limit {
			break
		}
		if _, ok := used[item.ID]; ok {
			continue
		}
		take(item)
	}

	if len(selected) > limit {
		selected = selected[:limit]
	}
	return interleave(selected)
}

// interleave emits the selection round-robin across categories so the same
// category never appears twice in a row while another is available. Short
// lists are returned untouched.
func interleave(items []entity.CandidateItem) []entity.CandidateItem {
	if len(items) <= 3 {
		return items
	}

	var order []entity.Category
	groups := make(map[entity.Category][]entity.CandidateItem)
	for _, item := range items {
		if _, ok := groups[item.Category]; !ok {
			order = append(order, item.Category)
		}
		groups[item.Category] = append(groups[item.Category], item)
	}

	out := make([]entity.CandidateItem, 0, len(items))
	for len(out) < len(items) {
		emitted := false
		for _, cat := range order {
			if len(groups[cat]) == 0 {
				continue
			}
			out = append(out, groups[cat][0])
			groups[cat] = groups[cat][1:]
			emitted = true
		}
		if !emitted {
			break
		}
	}
	return out
}

func inSet(set map[entity.Category]struct{}, cat entity.Category) bool {
	_, ok := set[cat]
	return ok
}
