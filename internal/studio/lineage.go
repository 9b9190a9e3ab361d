package studio

import "sort"

// Lineage computes the version history shown in the editor for record r: the
// unbroken ancestor chain from the earliest resolvable ancestor down to r,
// followed by r's immediate children (one generation only), sorted by
// creation time ascending.
//
// The walk is defensive by construction: a parentId that does not resolve
// terminates the ancestor chain silently, and the visited set bounds the loop
// to len(records)+1 iterations even if the parent references ever formed a
// cycle. No input shape is an error; the result always contains r itself.
func Lineage(r *ImageRecord, records []*ImageRecord) []*ImageRecord {
	var chain []*ImageRecord
	visited := make(map[string]bool)

	current := r
	for current != nil && !visited[current.ID] {
		visited[current.ID] = true
		chain = append([]*ImageRecord{current}, chain...)
		if current.ParentID == "" {
			break
		}
		current = findByID(records, current.ParentID)
	}

	for _, record := range records {
		if record.ParentID == r.ID && !visited[record.ID] {
			visited[record.ID] = true
			chain = append(chain, record)
		}
	}

	sort.SliceStable(chain, func(i, j int) bool {
		return chain[i].CreatedAt.Before(chain[j].CreatedAt)
	})
	return chain
}

func findByID(records []*ImageRecord, id string) *ImageRecord {
	for _, record := range records {
		if record.ID == id {
			return record
		}
	}
	return nil
}
