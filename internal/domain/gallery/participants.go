package gallery

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ParticipantsData is the guest roster hosted alongside the media files.
// It is provider-hosted content; this system never persists it.
type ParticipantsData struct {
	Participants []string  `json:"participants"`
	LastUpdated  time.Time `json:"lastUpdated"`
	TotalCount   int       `json:"totalCount"`
}

// IsParticipantsFile reports whether a filename looks like the roster
// JSON uploaded by the guestbook flow. The upload flow names the file
// inconsistently, hence the heuristic.
func IsParticipantsFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "participant") ||
		strings.Contains(lower, "katilimci") ||
		strings.HasSuffix(lower, ".json")
}

// ParseParticipants decodes roster JSON. TotalCount falls back to the
// roster length when the payload omits it.
func ParseParticipants(data []byte) (*ParticipantsData, error) {
	var pd ParticipantsData
	if err := json.Unmarshal(data, &pd); err != nil {
		return nil, fmt.Errorf("failed to parse participants data: %w", err)
	}
	if pd.Participants == nil {
		return nil, fmt.Errorf("participants data has no participants array")
	}
	if pd.TotalCount == 0 {
		pd.TotalCount = len(pd.Participants)
	}
	return &pd, nil
}
