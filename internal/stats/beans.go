package stats

import (
	"math"

	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
)

const (
	MaxBeanPoints  = 198
	BeanSlotsCount = 3
)

// ClampBeanValue rounds v and clamps it to [0, MaxBeanPoints].
// Non-finite input clamps to 0.
func ClampBeanValue(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	rounded := math.Round(v)
	if rounded < 0 {
		return 0
	}
	if rounded > MaxBeanPoints {
		return MaxBeanPoints
	}
	return int(rounded)
}

// EmptySlotBeans returns three unused beans
func EmptySlotBeans() models.SlotBeans {
	return models.SlotBeans{}
}

// NormalizeSlotBeans maps any number of beans onto exactly three, dropping
// unknown attributes and clamping values.
func NormalizeSlotBeans(beans []models.SlotBean) models.SlotBeans {
	out := EmptySlotBeans()
	for i := 0; i < BeanSlotsCount && i < len(beans); i++ {
		attr := beans[i].Attribute
		if !attr.Valid() {
			attr = ""
		}
		out[i] = models.SlotBean{
			Attribute: attr,
			Value:     ClampBeanValue(float64(beans[i].Value)),
		}
	}
	return out
}

// BeanBonuses sums bean values per attribute. Unused beans contribute nothing.
func BeanBonuses(beans models.SlotBeans) map[models.AttributeKey]float64 {
	bonuses := make(map[models.AttributeKey]float64, len(models.AttributeKeys))
	for _, key := range models.AttributeKeys {
		bonuses[key] = 0
	}
	for _, bean := range beans {
		if !bean.Attribute.Valid() {
			continue
		}
		bonuses[bean.Attribute] += float64(ClampBeanValue(float64(bean.Value)))
	}
	return bonuses
}
