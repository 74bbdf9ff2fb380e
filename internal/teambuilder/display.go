package teambuilder

import (
	"math"
	"strconv"

	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
)

// DisplayValue is the text a slot tile shows for the given mode
func DisplayValue(a models.SlotAssignment, mode models.DisplayMode) string {
	if a.Player == nil {
		if a.Slot.DisplayLabel != "" {
			return a.Slot.DisplayLabel
		}
		return a.Slot.Label
	}

	if mode == models.DisplayNickname || !mode.Valid() {
		switch {
		case a.Player.Nickname != "":
			return a.Player.Nickname
		case a.Player.Name != "":
			return a.Player.Name
		}
		return a.Slot.Label
	}

	power := a.Player.Power
	if a.Computed != nil {
		power = a.Computed.Power
	}
	v, _ := power.Get(string(mode))
	return FormatNumber(float64(v))
}

// FormatNumber prints integers as-is and anything else with one decimal
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', 1, 64)
	if len(s) > 2 && s[len(s)-2:] == ".0" {
		s = s[:len(s)-2]
	}
	return s
}
