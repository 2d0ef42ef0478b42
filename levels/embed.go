package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
)

//go:embed *.json
var samplesFS embed.FS

// Samples returns the maps bundled with the editor.
func Samples() ([]MapRecord, error) {
	data, err := fs.ReadFile(samplesFS, "sample.json")
	if err != nil {
		return nil, fmt.Errorf("levels: read samples: %w", err)
	}
	var coll Collection
	if err := json.Unmarshal(data, &coll); err != nil {
		return nil, fmt.Errorf("levels: decode samples: %w", err)
	}
	return coll.Maps, nil
}

// Seed adds bundled maps whose ids are not stored yet and reports how many
// were added.
func Seed(c *Collections) (int, error) {
	samples, err := Samples()
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	coll, err := c.get()
	if err != nil {
		return 0, err
	}
	added := 0
	for _, m := range samples {
		if indexOf(coll.Maps, m.ID) >= 0 {
			continue
		}
		coll.Maps = append(coll.Maps, m)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	return added, c.save(coll)
}
