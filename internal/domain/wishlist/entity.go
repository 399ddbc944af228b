// internal/domain/wishlist/entity.go
package wishlist

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Storage keys shared by the local and remote backends.
const (
	LocalKey    = "wishlist"
	RemoteField = "wishlist"
)

// Add inserts productID unless it is already present.
func Add(ids []string, productID string) []string {
	out := clone(ids)

	id := strings.TrimSpace(productID)
	if id == "" || indexOf(out, id) >= 0 {
		return out
	}
	return append(out, id)
}

// Remove drops productID. Absent ids are a no-op.
func Remove(ids []string, productID string) []string {
	out := clone(ids)

	idx := indexOf(out, strings.TrimSpace(productID))
	if idx < 0 {
		return out
	}
	return append(out[:idx], out[idx+1:]...)
}

// Toggle removes productID when present and adds it otherwise.
func Toggle(ids []string, productID string) []string {
	if Contains(ids, productID) {
		return Remove(ids, productID)
	}
	return Add(ids, productID)
}

// Contains reports membership.
func Contains(ids []string, productID string) bool {
	return indexOf(ids, strings.TrimSpace(productID)) >= 0
}

// Merge is a set union: remote ids first, then local ids not yet present.
func Merge(remote, local []string) []string {
	out := normalize(remote)
	for _, id := range normalize(local) {
		if indexOf(out, id) < 0 {
			out = append(out, id)
		}
	}
	return out
}

// EncodeLocal serializes the wishlist as a JSON array of ids.
func EncodeLocal(ids []string) ([]byte, error) {
	return json.Marshal(normalize(ids))
}

// DecodeLocal parses the local blob; malformed data yields an empty wishlist.
func DecodeLocal(b []byte) []string {
	if len(strings.TrimSpace(string(b))) == 0 {
		return []string{}
	}
	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		return []string{}
	}
	return decodeList(raw)
}

// EncodeRemote converts ids into the value stored under the wishlist field.
func EncodeRemote(ids []string) any {
	n := normalize(ids)
	out := make([]any, 0, len(n))
	for _, id := range n {
		out = append(out, id)
	}
	return out
}

// DecodeRemote parses the wishlist field of a user document.
func DecodeRemote(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		if ss, ok2 := v.([]string); ok2 {
			return normalize(ss)
		}
		return []string{}
	}
	return decodeList(raw)
}

// ----------------------------
// Helpers
// ----------------------------

func decodeList(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case float64, int64, int:
			// numeric product ids written by older clients
			out = append(out, fmt.Sprint(t))
		}
	}
	return normalize(out)
}

func normalize(src []string) []string {
	out := make([]string, 0, len(src))
	for _, id := range src {
		id = strings.TrimSpace(id)
		if id == "" || indexOf(out, id) >= 0 {
			continue
		}
		out = append(out, id)
	}
	return out
}

func indexOf(ids []string, id string) int {
	if id == "" {
		return -1
	}
	for i := range ids {
		if strings.TrimSpace(ids[i]) == id {
			return i
		}
	}
	return -1
}

func clone(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	return out
}
