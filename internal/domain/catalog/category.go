package catalog

import (
	"fmt"
	"strings"
)

// Category is the weapon type an item skins. Ordinals are stable and stored as-is.
type Category int

const (
	P2000 Category = iota + 1
	USPS
	Glock
	P250
	FiveSeven
	Tec9
	CZ75
	DualBerettas
	Deagle
	R8
	Nova
	XM1014
	MAG7
	SawedOff
	MP9
	MAC10
	PPBizon
	MP7
	UMP45
	P90
	MP5
	FAMAS
	Galil
	M4A4
	M4A1S
	AK47
	AUG
	SG553
	SSG08
	AWP
	SCAR20
	G3SG1
	M249
	Negev
	MP5SD
	Zeus
	Knife
)

var categoryDisplayNames = map[Category]string{
	P2000:        "P2000",
	USPS:         "USP-S",
	Glock:        "Glock-18",
	P250:         "P250",
	FiveSeven:    "Five-SeveN",
	Tec9:         "Tec-9",
	CZ75:         "CZ75-Auto",
	DualBerettas: "Dual Berettas",
	Deagle:       "Desert Eagle",
	R8:           "R8 Revolver",
	Nova:         "Nova",
	XM1014:       "XM1014",
	MAG7:         "MAG-7",
	SawedOff:     "Sawed-Off",
	MP9:          "MP9",
	MAC10:        "MAC-10",
	PPBizon:      "PP-Bizon",
	MP7:          "MP7",
	UMP45:        "UMP-45",
	P90:          "P90",
	MP5:          "MP5",
	FAMAS:        "FAMAS",
	Galil:        "Galil AR",
	M4A4:         "M4A4",
	M4A1S:        "M4A1-S",
	AK47:         "AK-47",
	AUG:          "AUG",
	SG553:        "SG 553",
	SSG08:        "SSG 08",
	AWP:          "AWP",
	SCAR20:       "SCAR-20",
	G3SG1:        "G3SG1",
	M249:         "M249",
	Negev:        "Negev",
	MP5SD:        "MP5-SD",
	Zeus:         "Zeus x27",
	Knife:        "Knife",
}

// categoryCodes maps game-definition weapon codes to categories.
var categoryCodes = map[string]Category{
	"hkp2000":       P2000,
	"usp_silencer":  USPS,
	"glock":         Glock,
	"p250":          P250,
	"fiveseven":     FiveSeven,
	"tec9":          Tec9,
	"cz75a":         CZ75,
	"elite":         DualBerettas,
	"deagle":        Deagle,
	"revolver":      R8,
	"nova":          Nova,
	"xm1014":        XM1014,
	"mag7":          MAG7,
	"sawedoff":      SawedOff,
	"mp9":           MP9,
	"mac10":         MAC10,
	"bizon":         PPBizon,
	"mp7":           MP7,
	"ump45":         UMP45,
	"p90":           P90,
	"mp5sd":         MP5SD,
	"famas":         FAMAS,
	"galilar":       Galil,
	"m4a1":          M4A4,
	"m4a1_silencer": M4A1S,
	"ak47":          AK47,
	"aug":           AUG,
	"sg556":         SG553,
	"ssg08":         SSG08,
	"awp":           AWP,
	"scar20":        SCAR20,
	"g3sg1":         G3SG1,
	"m249":          M249,
	"negev":         Negev,
	"taser":         Zeus,
	"knife":         Knife,
}

var categoriesByDisplayName = func() map[string]Category {
	m := make(map[string]Category, len(categoryDisplayNames))
	for c, name := range categoryDisplayNames {
		m[strings.ToLower(name)] = c
	}
	return m
}()

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryDisplayNames[c]
	return ok
}

func (c Category) String() string {
	if name, ok := categoryDisplayNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory resolves a weapon code ("m4a1_silencer") or display name ("M4A1-S").
func ParseCategory(name string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if c, ok := categoryCodes[key]; ok {
		return c, nil
	}
	if c, ok := categoriesByDisplayName[key]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// CategoryFromOrdinal validates a stored ordinal.
func CategoryFromOrdinal(v int) (Category, error) {
	c := Category(v)
	if !c.Valid() {
		return 0, fmt.Errorf("%w: ordinal %d", ErrUnknownCategory, v)
	}
	return c, nil
}
