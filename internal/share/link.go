package share

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Billy-Davies-2/inazuma-guide/internal/formations"
	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
	"github.com/Billy-Davies-2/inazuma-guide/internal/teambuilder"
)

// QueryKey is the URL query parameter carrying a share code
const QueryKey = "team"

// UnknownFormationName is shown when a decoded formation id is not in the catalog
const UnknownFormationName = "Unknown formation"

// BuildShareURL encodes s and attaches it to base under QueryKey,
// replacing any previous code.
func BuildShareURL(base string, s models.TeamBuilderState) (string, error) {
	code, err := Encode(s)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid share base url: %w", err)
	}
	q := u.Query()
	q.Set(QueryKey, code)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ConsumeShareParam extracts the share code from raw and returns the URL
// without it, so a link is only imported once. ok is false when raw carries
// no code.
func ConsumeShareParam(raw string) (code string, cleaned string, ok bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", raw, false
	}
	q := u.Query()
	code = strings.TrimSpace(q.Get(QueryKey))
	if code == "" {
		return "", raw, false
	}
	q.Del(QueryKey)
	u.RawQuery = q.Encode()
	return code, u.String(), true
}

// Summary describes a decoded team before it is imported
type Summary struct {
	FormationID   string `json:"formationId"`
	FormationName string `json:"formationName"`
	Filled        int    `json:"filled"`
	Slots         int    `json:"slots"`
}

// Preview summarizes s for the import prompt
func Preview(s models.TeamBuilderState) Summary {
	sum := Summary{
		FormationID:   s.FormationID,
		FormationName: UnknownFormationName,
		Filled:        teambuilder.CountAssigned(s.Assignments),
	}
	if f, ok := formations.Get(s.FormationID); ok {
		sum.FormationName = f.Name
		sum.Slots = len(teambuilder.SlotsFor(s))
	}
	return sum
}

// String renders the summary the way the import prompt shows it
func (s Summary) String() string {
	noun := "players"
	if s.Filled == 1 {
		noun = "player"
	}
	return fmt.Sprintf("%d %s in %s", s.Filled, noun, s.FormationName)
}
