package sds

// LabelElement is one hazard pictogram shown in Section 2.
type LabelElement struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (l LabelElement) key() [2]string { return [2]string{l.URL, l.Description} }

// MergeLabelElements returns the union of the given sets keyed by
// (URL, Description), keeping first-seen order.  Nil inputs are fine.
func MergeLabelElements(sets ...[]LabelElement) []LabelElement {
	seen := make(map[[2]string]struct{})
	out := make([]LabelElement, 0)
	for _, set := range sets {
		for _, el := range set {
			k := el.key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, el)
		}
	}
	return out
}

//Personal.AI order the ending
