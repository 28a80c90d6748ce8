package domain

// Photo is a server-side photo of a park or event. IDs within one
// collection are contiguous and start at 1.
type Photo struct {
	ID  int    `json:"id"`
	URL string `json:"photo,omitempty"`
}

// RenumberAfterRemoval drops the photo with removeID and reassigns ids to
// the 1-based position of each remaining photo. Order and URLs are kept.
// The input slice is not modified.
func RenumberAfterRemoval(photos []Photo, removeID int) []Photo {
	out := make([]Photo, 0, len(photos))
	for _, p := range photos {
		if p.ID == removeID {
			continue
		}
		out = append(out, p)
	}
	for i := range out {
		out[i].ID = i + 1
	}
	return out
}
