// internal/domain/category/seed.go
package category

import "time"

type seedNode struct {
	id, name, parent string
	order            int
}

var defaultTree = []seedNode{
	{"makeup", "Makeup", "", 0},
	{"face", "Face", "makeup", 0},
	{"foundation", "Foundation", "face", 0},
	{"concealer", "Concealer", "face", 1},
	{"blush", "Blush", "face", 2},
	{"eyes", "Eyes", "makeup", 1},
	{"mascara", "Mascara", "eyes", 0},
	{"eyeshadow", "Eyeshadow", "eyes", 1},
	{"lips", "Lips", "makeup", 2},
	{"lipstick", "Lipstick", "lips", 0},
	{"lip-gloss", "Lip Gloss", "lips", 1},
	{"skincare", "Skincare", "", 1},
	{"cleansers", "Cleansers", "skincare", 0},
	{"moisturizers", "Moisturizers", "skincare", 1},
	{"serums", "Serums", "skincare", 2},
	{"fragrance", "Fragrance", "", 2},
	{"haircare", "Haircare", "", 3},
}

// DefaultTree is the starter catalog tree, parents before children.
func DefaultTree(now time.Time) []Category {
	out := make([]Category, 0, len(defaultTree))
	for _, n := range defaultTree {
		c, err := New(n.id, n.name, "", "", n.parent, n.order, "", now)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}
