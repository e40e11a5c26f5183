package production

import "strings"

// Department is the normalized department enum stored in Postgres and used to
// group crew in the workbook.
type Department string

const (
	DeptProduction     Department = "PRODUCTION"
	DeptCamera         Department = "CAMERA"
	DeptGripElectric   Department = "GRIP_ELECTRIC"
	DeptArt            Department = "ART"
	DeptWardrobe       Department = "WARDROBE"
	DeptHairMakeup     Department = "HAIR_MAKEUP"
	DeptSound          Department = "SOUND"
	DeptLocations      Department = "LOCATIONS"
	DeptTransportation Department = "TRANSPORTATION"
	DeptCatering       Department = "CATERING"
	DeptPostProduction Department = "POST_PRODUCTION"
	DeptOther          Department = "OTHER"
)

var departmentNormalizeMap = map[string]Department{
	"PRODUCTION":      DeptProduction,
	"MGMT":            DeptProduction,
	"DIRECTING":       DeptProduction,
	"CAMERA":          DeptCamera,
	"CAMERA DEPT":     DeptCamera,
	"DIGITAL":         DeptCamera,
	"STILLS":          DeptCamera,
	"VTR":             DeptCamera,
	"G&E":             DeptGripElectric,
	"GRIP":            DeptGripElectric,
	"ELECTRIC":        DeptGripElectric,
	"LIGHTING":        DeptGripElectric,
	"GRIP & ELECTRIC": DeptGripElectric,
	"GRIP_ELECTRIC":   DeptGripElectric,
	"ART":             DeptArt,
	"ART DEPT":        DeptArt,
	"WARDROBE":        DeptWardrobe,
	"HAIR":            DeptHairMakeup,
	"MAKEUP":          DeptHairMakeup,
	"HAIR & MAKEUP":   DeptHairMakeup,
	"HAIR_MAKEUP":     DeptHairMakeup,
	"HMU":             DeptHairMakeup,
	"VANITIES":        DeptHairMakeup,
	"SOUND":           DeptSound,
	"AUDIO":           DeptSound,
	"LOCATIONS":       DeptLocations,
	"TRANSPORTATION":  DeptTransportation,
	"TRANSPO":         DeptTransportation,
	"CATERING":        DeptCatering,
	"CRAFT":           DeptCatering,
	"CRAFT SERVICES":  DeptCatering,
	"POST":            DeptPostProduction,
	"POST PRODUCTION": DeptPostProduction,
	"POST_PRODUCTION": DeptPostProduction,
	"TALENT":          DeptOther,
	"MEDICAL":         DeptOther,
	"OTHER":           DeptOther,
}

var departmentDisplayMap = map[Department]string{
	DeptProduction:     "PRODUCTION",
	DeptCamera:         "CAMERA DEPT",
	DeptGripElectric:   "GRIP & ELECTRIC",
	DeptArt:            "ART DEPT",
	DeptWardrobe:       "WARDROBE",
	DeptHairMakeup:     "HAIR & MAKEUP",
	DeptSound:          "SOUND",
	DeptLocations:      "LOCATIONS",
	DeptTransportation: "TRANSPORTATION",
	DeptCatering:       "CATERING",
	DeptPostProduction: "POST PRODUCTION",
	DeptOther:          "OTHER",
}

// DepartmentOrder is the display order crew departments are grouped in.
var DepartmentOrder = []Department{
	DeptProduction, DeptCamera, DeptGripElectric, DeptArt,
	DeptWardrobe, DeptHairMakeup, DeptSound, DeptLocations,
	DeptTransportation, DeptCatering, DeptPostProduction, DeptOther,
}

// NormalizeDepartment maps free-text department labels onto the enum. It is
// total: unknown input lands in OTHER.
func NormalizeDepartment(dept string) Department {
	if d, ok := departmentNormalizeMap[strings.ToUpper(strings.TrimSpace(dept))]; ok {
		return d
	}
	return DeptOther
}

// DisplayName formats the enum value for call sheet headers.
func (d Department) DisplayName() string {
	if name, ok := departmentDisplayMap[d]; ok {
		return name
	}
	return string(d)
}
