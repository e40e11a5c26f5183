// Package workbook renders a production record into the multi-sheet Epitome
// workbook: crew list, shoot schedule, one call sheet per shoot day, a
// locations sheet and a blank PO log for the production office.
package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/production"
)

type Generator struct {
	log *logger.Logger
}

func NewGenerator(log *logger.Logger) *Generator {
	return &Generator{log: log.With("component", "WorkbookGenerator")}
}

// styles holds the style IDs registered on one file. Excelize style IDs are
// per-file, so these are rebuilt for every render.
type styles struct {
	headerDark  int
	headerLight int
	cellNormal  int
	cellCenter  int
	cellBold    int
	deptHeader  int
	titleLarge  int
}

func thinBorder() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, 0, len(sides))
	for _, s := range sides {
		borders = append(borders, excelize.Border{Type: s, Style: 1, Color: "000000"})
	}
	return borders
}

func newStyles(f *excelize.File) (*styles, error) {
	s := &styles{}
	var err error

	s.headerDark, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"111827"}},
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	s.headerLight, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "000000"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F3F4F6"}},
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	s.cellNormal, err = f.NewStyle(&excelize.Style{
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	s.cellCenter, err = f.NewStyle(&excelize.Style{
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	s.cellBold, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	s.deptHeader, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D1D5DB"}},
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	if err != nil {
		return nil, err
	}
	s.titleLarge, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 18},
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Render builds the workbook in memory. The caller owns closing the file.
func (g *Generator) Render(record *production.ProductionRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("register workbook styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", "Crew List"); err != nil {
		return nil, err
	}
	if err := g.writeCrewList(f, st, record); err != nil {
		return nil, fmt.Errorf("write crew list: %w", err)
	}
	if err := g.writeSchedule(f, st, record); err != nil {
		return nil, fmt.Errorf("write schedule: %w", err)
	}

	days := record.ScheduleDays
	if len(days) == 0 {
		days = []production.ScheduleDay{{DayNumber: 1, Date: production.TBD}}
	}
	for _, day := range days {
		if err := g.writeCallSheet(f, st, record, day); err != nil {
			return nil, fmt.Errorf("write call sheet day %d: %w", day.DayNumber, err)
		}
	}

	if err := g.writeLocations(f, st, record); err != nil {
		return nil, fmt.Errorf("write locations: %w", err)
	}
	if err := g.writePOLog(f, st, record); err != nil {
		return nil, fmt.Errorf("write po log: %w", err)
	}
	return f, nil
}

// Write renders the workbook and saves it to path.
func (g *Generator) Write(record *production.ProductionRecord, path string) error {
	f, err := g.Render(record)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	g.log.Info("Workbook written", "path", path, "days", len(record.ScheduleDays))
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func setCell(f *excelize.File, sheet string, col, row int, v any, style int) {
	ref := cell(col, row)
	_ = f.SetCellValue(sheet, ref, v)
	if style != 0 {
		_ = f.SetCellStyle(sheet, ref, ref, style)
	}
}

func styleRow(f *excelize.File, sheet string, row, fromCol, toCol, style int) {
	_ = f.SetCellStyle(sheet, cell(fromCol, row), cell(toCol, row), style)
}

func mergeAcross(f *excelize.File, sheet string, row, fromCol, toCol int, v any, style int) {
	_ = f.MergeCell(sheet, cell(fromCol, row), cell(toCol, row))
	setCell(f, sheet, fromCol, row, v, style)
	_ = f.SetCellStyle(sheet, cell(fromCol, row), cell(toCol, row), style)
}

func orTBD(s string) string {
	if production.IsTBD(s) {
		return production.TBD
	}
	return s
}

// groupCrew buckets crew entries by normalized department, in display order.
func groupCrew(crew []production.CrewEntry) []struct {
	Dept    production.Department
	Entries []production.CrewEntry
} {
	byDept := make(map[production.Department][]production.CrewEntry)
	for _, entry := range crew {
		d := production.NormalizeDepartment(entry.Department)
		byDept[d] = append(byDept[d], entry)
	}
	var groups []struct {
		Dept    production.Department
		Entries []production.CrewEntry
	}
	for _, d := range production.DepartmentOrder {
		if entries, ok := byDept[d]; ok {
			groups = append(groups, struct {
				Dept    production.Department
				Entries []production.CrewEntry
			}{Dept: d, Entries: entries})
		}
	}
	return groups
}

var defaultCrewBuckets = []string{"Production", "Camera", "G&E", "Art", "Sound", "H/MU", "Wardrobe", "PA"}

func (g *Generator) writeCrewList(f *excelize.File, st *styles, record *production.ProductionRecord) error {
	const sheet = "Crew List"
	_ = f.SetColWidth(sheet, "A", "A", 25)
	_ = f.SetColWidth(sheet, "B", "B", 25)
	_ = f.SetColWidth(sheet, "C", "C", 15)
	_ = f.SetColWidth(sheet, "D", "D", 25)
	_ = f.SetColWidth(sheet, "E", "E", 15)

	info := record.ProductionInfo
	setCell(f, sheet, 1, 1, fmt.Sprintf("JOB: %s", orTBD(info.JobName)), st.titleLarge)
	setCell(f, sheet, 1, 2, fmt.Sprintf("CLIENT: %s", orTBD(info.Client)), 0)

	headers := []string{"Role", "Name", "Phone", "Email", "Rate", "Notes"}
	for i, h := range headers {
		setCell(f, sheet, i+1, 4, h, st.headerDark)
	}

	row := 5
	if len(record.CrewList) == 0 {
		// No crew yet: render named department buckets with blank lines so
		// the production office can fill the sheet in by hand.
		for _, dept := range defaultCrewBuckets {
			mergeAcross(f, sheet, row, 1, 6, strings.ToUpper(dept), st.deptHeader)
			row++
			for i := 0; i < 3; i++ {
				styleRow(f, sheet, row, 1, 6, st.cellNormal)
				row++
			}
		}
		return nil
	}

	for _, group := range groupCrew(record.CrewList) {
		mergeAcross(f, sheet, row, 1, 6, group.Dept.DisplayName(), st.deptHeader)
		row++
		for _, person := range group.Entries {
			setCell(f, sheet, 1, row, person.Role, st.cellBold)
			setCell(f, sheet, 2, row, person.Name, st.cellNormal)
			setCell(f, sheet, 3, row, person.Phone, st.cellNormal)
			setCell(f, sheet, 4, row, person.Email, st.cellNormal)
			setCell(f, sheet, 5, row, person.Rate.String(), st.cellNormal)
			setCell(f, sheet, 6, row, person.Notes, st.cellNormal)
			row++
		}
	}
	return nil
}

var defaultScheduleTemplate = []production.ScheduleItem{
	{Time: "07:00 AM", Activity: "CREW CALL / BREAKFAST", Notes: "Catering Tent"},
	{Time: "08:00 AM", Activity: "Safety Meeting", Notes: "All Hands"},
	{Time: "08:15 AM", Activity: "Shoot Scene 1", Notes: "TBD"},
	{Time: "01:00 PM", Activity: "LUNCH", Notes: "30 Mins"},
	{Time: "01:30 PM", Activity: "Shoot Scene 2", Notes: "TBD"},
	{Time: "07:00 PM", Activity: "WRAP", Notes: "Estimated"},
}

func (g *Generator) writeSchedule(f *excelize.File, st *styles, record *production.ProductionRecord) error {
	const sheet = "Schedule"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	_ = f.SetColWidth(sheet, "A", "A", 15)
	_ = f.SetColWidth(sheet, "B", "B", 40)
	_ = f.SetColWidth(sheet, "C", "C", 30)

	setCell(f, sheet, 1, 1, "SHOOT SCHEDULE", st.titleLarge)

	headers := []string{"TIME", "ACTIVITY / SCENE", "NOTES"}
	for i, h := range headers {
		setCell(f, sheet, i+1, 4, h, st.headerDark)
	}

	schedule := record.Schedule
	if len(schedule) == 0 {
		schedule = defaultScheduleTemplate
	}

	row := 5
	for _, item := range schedule {
		setCell(f, sheet, 1, row, item.Time, st.cellCenter)
		setCell(f, sheet, 2, row, item.Activity, st.cellNormal)
		setCell(f, sheet, 3, row, item.Notes, st.cellNormal)
		row++
	}
	return nil
}

// defaultCallSheetRoles seeds a call sheet when no crew has been extracted.
type roleBlock struct {
	dept  string
	roles []string
}

var defaultCallSheetRoles = []roleBlock{
	{dept: "PRODUCTION", roles: []string{"Executive Producer", "Producer", "Prod. Supervisor", "PA - Set"}},
	{dept: "CAMERA", roles: []string{"Director of Photography", "1st AC", "2nd AC", "DIT"}},
	{dept: "AUDIO", roles: []string{"Sound Mixer", "Boom Op"}},
	{dept: "G&E", roles: []string{"Gaffer", "Key Grip", "Best Boy"}},
	{dept: "TALENT", roles: []string{"Talent 1", "Talent 2"}},
}

func (g *Generator) writeCallSheet(f *excelize.File, st *styles, record *production.ProductionRecord, day production.ScheduleDay) error {
	sheet := fmt.Sprintf("Call Sheet - Day %d", day.DayNumber)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	_ = f.SetColWidth(sheet, "A", "F", 20)

	info := record.ProductionInfo
	logistics := record.Logistics

	_ = f.MergeCell(sheet, "A1", "B2")
	setCell(f, sheet, 1, 1, "EPITOME", st.titleLarge)
	mergeAcross(f, sheet, 1, 3, 4, fmt.Sprintf("CALL SHEET - DAY %d", day.DayNumber), st.headerDark)
	mergeAcross(f, sheet, 2, 3, 4, orTBD(day.Date), st.cellCenter)

	prodCo := info.ProductionCompany
	if production.IsTBD(prodCo) {
		prodCo = "Epitome"
	}
	setCell(f, sheet, 1, 4, "PRODUCTION CO:", st.headerLight)
	setCell(f, sheet, 2, 4, prodCo, st.cellNormal)
	setCell(f, sheet, 1, 5, "JOB NAME:", st.headerLight)
	setCell(f, sheet, 2, 5, orTBD(info.JobName), st.cellNormal)

	var mainLoc production.Location
	if len(logistics.Locations) > 0 {
		mainLoc = logistics.Locations[0]
	}
	setCell(f, sheet, 3, 4, "LOCATION:", st.headerLight)
	setCell(f, sheet, 3, 5, orTBD(mainLoc.Name), st.cellNormal)
	setCell(f, sheet, 3, 6, mainLoc.Address, st.cellNormal)

	setCell(f, sheet, 5, 4, "CREW CALL:", st.headerLight)
	setCell(f, sheet, 6, 4, orTBD(day.CrewCall), st.cellBold)
	setCell(f, sheet, 5, 5, "WEATHER:", st.headerLight)
	setCell(f, sheet, 6, 5, formatWeatherLine(day.Weather, logistics.Weather), st.cellNormal)

	setCell(f, sheet, 1, 8, "NEAREST HOSPITAL:", st.headerLight)
	setCell(f, sheet, 2, 8, formatHospitalLine(logistics.Hospital), st.cellNormal)

	const gridRow = 12
	headers := []string{"TITLE", "NAME", "PHONE", "EMAIL", "CALL TIME", "LOCATION"}
	for i, h := range headers {
		setCell(f, sheet, i+1, gridRow, h, st.headerDark)
	}

	row := gridRow + 1
	if len(record.CrewList) == 0 {
		for _, block := range defaultCallSheetRoles {
			mergeAcross(f, sheet, row, 1, 6, block.dept, st.deptHeader)
			row++
			for _, role := range block.roles {
				setCell(f, sheet, 1, row, role, st.cellBold)
				styleRow(f, sheet, row, 2, 4, st.cellNormal)

				callTime := orTBD(day.CrewCall)
				if block.dept == "TALENT" {
					callTime = orTBD(day.TalentCall)
				}
				setCell(f, sheet, 5, row, callTime, st.cellCenter)
				setCell(f, sheet, 6, row, "Set", st.cellCenter)
				row++
			}
		}
		return nil
	}

	for _, group := range groupCrew(record.CrewList) {
		mergeAcross(f, sheet, row, 1, 6, group.Dept.DisplayName(), st.deptHeader)
		row++
		for _, person := range group.Entries {
			setCell(f, sheet, 1, row, person.Role, st.cellBold)
			setCell(f, sheet, 2, row, person.Name, st.cellNormal)
			setCell(f, sheet, 3, row, person.Phone, st.cellNormal)
			setCell(f, sheet, 4, row, person.Email, st.cellNormal)

			callTime := person.CallTime
			if production.IsTBD(callTime) {
				callTime = orTBD(day.CrewCall)
			}
			setCell(f, sheet, 5, row, callTime, st.cellCenter)

			location := person.Location
			if production.IsTBD(location) {
				location = "Set"
			}
			setCell(f, sheet, 6, row, location, st.cellCenter)
			row++
		}
	}
	return nil
}

func formatWeatherLine(dayWeather, recordWeather *production.Weather) string {
	w := dayWeather
	if w == nil {
		w = recordWeather
	}
	high, low := "-", "-"
	if w != nil {
		if !production.IsTBD(w.Temperature.High) {
			high = w.Temperature.High
		}
		if !production.IsTBD(w.Temperature.Low) {
			low = w.Temperature.Low
		}
	}
	return fmt.Sprintf("H: %s L: %s", high, low)
}

func formatHospitalLine(hosp *production.Hospital) string {
	if hosp == nil || production.IsTBD(hosp.Name) {
		return production.TBD
	}
	return fmt.Sprintf("%s - %s", hosp.Name, hosp.Address)
}

func (g *Generator) writeLocations(f *excelize.File, st *styles, record *production.ProductionRecord) error {
	const sheet = "Locations"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	_ = f.SetColWidth(sheet, "A", "F", 20)

	headers := []string{"Location Name", "Address", "Contact Name", "Phone", "Parking Notes", "Nearest Hospital"}
	for i, h := range headers {
		setCell(f, sheet, i+1, 1, h, st.headerDark)
	}

	hospInfo := formatHospitalLine(record.Logistics.Hospital)
	row := 2
	for _, loc := range record.Logistics.Locations {
		setCell(f, sheet, 1, row, loc.Name, st.cellBold)
		setCell(f, sheet, 2, row, loc.Address, st.cellNormal)
		setCell(f, sheet, 3, row, loc.Contact, st.cellNormal)
		setCell(f, sheet, 4, row, loc.Phone, st.cellNormal)
		setCell(f, sheet, 5, row, loc.Parking, st.cellNormal)
		setCell(f, sheet, 6, row, hospInfo, st.cellNormal)
		row++
	}
	return nil
}

func (g *Generator) writePOLog(f *excelize.File, st *styles, record *production.ProductionRecord) error {
	const sheet = "PO Log"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	_ = f.SetColWidth(sheet, "A", "H", 15)

	mergeAcross(f, sheet, 1, 1, 8, fmt.Sprintf("PO LOG - %s", record.ProductionInfo.JobName), st.titleLarge)

	headers := []string{"PO #", "Vendor", "Description", "Amount", "Date", "Pay Status", "Notes", "Budget Code"}
	for i, h := range headers {
		setCell(f, sheet, i+1, 4, h, st.headerDark)
	}

	// Blank entry grid for the production office.
	for row := 5; row <= 20; row++ {
		styleRow(f, sheet, row, 1, 8, st.cellNormal)
	}
	return nil
}
