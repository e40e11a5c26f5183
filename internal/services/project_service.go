package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/epitomehq/callsheet-backend/internal/enrichment"
	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/production"
	"github.com/epitomehq/callsheet-backend/internal/repos"
	"github.com/epitomehq/callsheet-backend/internal/types"
)

const defaultOrgSlug = "default"

// Geocoder resolves a street address to coordinates. Satisfied by
// enrichment.Client; location edits re-geocode through it.
type Geocoder interface {
	Geocode(ctx context.Context, address string) *enrichment.GeocodeResult
}

// CallSheetUpdate carries the optional fields a chat edit can change on one
// call sheet. Nil means leave untouched.
type CallSheetUpdate struct {
	ShootDate       *string
	GeneralCrewCall *string
	HospitalName    *string
	HospitalAddress *string
}

type ProjectUpdate struct {
	JobName *string
	Client  *string
	Agency  *string
}

type LocationUpdate struct {
	Name    *string
	Address *string
}

type RsvpUpdate struct {
	CallTime    *string
	Location    *string
	CallSheetID *uuid.UUID
}

type ProjectService interface {
	SaveGeneration(ctx context.Context, record *production.ProductionRecord) (uuid.UUID, error)
	GetProjectForFrontend(ctx context.Context, projectID uuid.UUID) (*ProjectView, error)
	UpdateCallSheet(ctx context.Context, callSheetID uuid.UUID, upd CallSheetUpdate) (bool, error)
	UpdateCrewRsvp(ctx context.Context, projectCrewID uuid.UUID, upd RsvpUpdate) (bool, error)
	UpdateProject(ctx context.Context, projectID uuid.UUID, upd ProjectUpdate) (bool, error)
	UpdateLocation(ctx context.Context, locationID uuid.UUID, upd LocationUpdate) (bool, error)
}

type projectService struct {
	db       *gorm.DB
	log      *logger.Logger
	geocoder Geocoder

	orgRepo       repos.OrganizationRepo
	clientRepo    repos.ClientRepo
	projectRepo   repos.ProjectRepo
	locationRepo  repos.LocationRepo
	callSheetRepo repos.CallSheetRepo
	crewRepo      repos.CrewMemberRepo
	projCrewRepo  repos.ProjectCrewRepo
	rsvpRepo      repos.CallSheetRsvpRepo
}

type ProjectServiceDeps struct {
	DB       *gorm.DB
	Geocoder Geocoder

	OrgRepo       repos.OrganizationRepo
	ClientRepo    repos.ClientRepo
	ProjectRepo   repos.ProjectRepo
	LocationRepo  repos.LocationRepo
	CallSheetRepo repos.CallSheetRepo
	CrewRepo      repos.CrewMemberRepo
	ProjCrewRepo  repos.ProjectCrewRepo
	RsvpRepo      repos.CallSheetRsvpRepo
}

func NewProjectService(log *logger.Logger, deps ProjectServiceDeps) ProjectService {
	return &projectService{
		db:            deps.DB,
		log:           log.With("service", "ProjectService"),
		geocoder:      deps.Geocoder,
		orgRepo:       deps.OrgRepo,
		clientRepo:    deps.ClientRepo,
		projectRepo:   deps.ProjectRepo,
		locationRepo:  deps.LocationRepo,
		callSheetRepo: deps.CallSheetRepo,
		crewRepo:      deps.CrewRepo,
		projCrewRepo:  deps.ProjCrewRepo,
		rsvpRepo:      deps.RsvpRepo,
	}
}

var shootDateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
	"2006/01/02",
}

func parseShootDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if production.IsTBD(s) {
		return time.Time{}, false
	}
	for _, layout := range shootDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// stripDegrees turns "75F" into "75" for storage; the frontend appends units.
func stripDegrees(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "F", ""))
}

func orDefault(s, def string) string {
	if production.IsTBD(s) {
		return def
	}
	return s
}

func (s *projectService) ensureDefaultOrganization(ctx context.Context, tx *gorm.DB) (*types.Organization, error) {
	org, err := s.orgRepo.GetBySlug(ctx, tx, defaultOrgSlug)
	if err != nil {
		return nil, err
	}
	if org != nil {
		return org, nil
	}
	return s.orgRepo.Create(ctx, tx, &types.Organization{
		Name: "Default Organization",
		Slug: defaultOrgSlug,
	})
}

// getOrCreateClient resolves the client row for a name, creating it on first
// sight. Logo and research data from enrichment land here too. Returns nil
// without error when the name carries no information.
func (s *projectService) getOrCreateClient(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, record *production.ProductionRecord) (*types.Client, error) {
	name := strings.TrimSpace(record.ProductionInfo.Client)
	if production.IsTBD(name) {
		return nil, nil
	}

	logoURL := record.ClientInfo.LogoURL
	var researchNotes string
	if record.ClientInfo.Research != nil {
		researchNotes = record.ClientInfo.Research.Summary
	}

	existing, err := s.clientRepo.GetByName(ctx, tx, orgID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		fields := map[string]interface{}{}
		if logoURL != "" && existing.LogoURL == "" {
			fields["logo_url"] = logoURL
		}
		if researchNotes != "" && existing.ResearchNotes == "" {
			fields["research_notes"] = researchNotes
		}
		if len(fields) > 0 {
			if err := s.clientRepo.UpdateFields(ctx, tx, existing.ID, fields); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}

	return s.clientRepo.Create(ctx, tx, &types.Client{
		OrganizationID: orgID,
		Name:           name,
		LogoURL:        logoURL,
		ResearchNotes:  researchNotes,
	})
}

func (s *projectService) SaveGeneration(ctx context.Context, record *production.ProductionRecord) (uuid.UUID, error) {
	var projectID uuid.UUID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := s.saveGeneration(ctx, tx, record)
		if err != nil {
			return err
		}
		projectID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return projectID, nil
}

func (s *projectService) saveGeneration(ctx context.Context, tx *gorm.DB, record *production.ProductionRecord) (uuid.UUID, error) {
	org, err := s.ensureDefaultOrganization(ctx, tx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("ensure organization: %w", err)
	}

	client, err := s.getOrCreateClient(ctx, tx, org.ID, record)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve client: %w", err)
	}

	info := record.ProductionInfo
	jobNumber := strings.TrimSpace(info.JobNumber)
	if production.IsTBD(jobNumber) {
		jobNumber = fmt.Sprintf("EP-%s", time.Now().Format("20060102-1504"))
	}

	var clientID *uuid.UUID
	if client != nil {
		clientID = &client.ID
	}

	project, err := s.projectRepo.GetByOrgAndJobNumber(ctx, tx, org.ID, jobNumber)
	if err != nil {
		return uuid.Nil, err
	}
	if project != nil {
		fields := map[string]interface{}{
			"client":    orDefault(info.Client, project.Client),
			"client_id": clientID,
		}
		if !production.IsTBD(info.JobName) {
			fields["job_name"] = info.JobName
		}
		if !production.IsTBD(info.Agency) {
			fields["agency"] = info.Agency
		}
		if !production.IsTBD(info.Brand) {
			fields["brand"] = info.Brand
		}
		if err := s.projectRepo.UpdateFields(ctx, tx, project.ID, fields); err != nil {
			return uuid.Nil, err
		}
		s.log.Info("Updating existing project", "projectID", project.ID, "jobNumber", jobNumber)
	} else {
		project, err = s.projectRepo.Create(ctx, tx, &types.Project{
			OrganizationID: org.ID,
			ClientID:       clientID,
			JobNumber:      jobNumber,
			JobName:        orDefault(info.JobName, "Untitled Project"),
			Client:         orDefault(info.Client, ""),
			Agency:         orDefault(info.Agency, ""),
			Brand:          orDefault(info.Brand, ""),
		})
		if err != nil {
			return uuid.Nil, err
		}
		s.log.Info("Created project", "projectID", project.ID, "jobNumber", jobNumber)
	}

	// Regeneration replaces children wholesale. RSVPs reference the old
	// call sheets, so they go first.
	oldSheets, err := s.callSheetRepo.GetByProjectID(ctx, tx, project.ID)
	if err != nil {
		return uuid.Nil, err
	}
	oldSheetIDs := make([]uuid.UUID, 0, len(oldSheets))
	for _, sheet := range oldSheets {
		oldSheetIDs = append(oldSheetIDs, sheet.ID)
	}
	if err := s.rsvpRepo.DeleteByCallSheetIDs(ctx, tx, oldSheetIDs); err != nil {
		return uuid.Nil, err
	}
	if err := s.callSheetRepo.DeleteByProjectID(ctx, tx, project.ID); err != nil {
		return uuid.Nil, err
	}
	if err := s.projCrewRepo.DeleteByProjectID(ctx, tx, project.ID); err != nil {
		return uuid.Nil, err
	}
	if err := s.locationRepo.DeleteByProjectID(ctx, tx, project.ID); err != nil {
		return uuid.Nil, err
	}

	if err := s.insertLocations(ctx, tx, project.ID, record); err != nil {
		return uuid.Nil, err
	}

	sheets, days, err := s.insertCallSheets(ctx, tx, project.ID, record)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.insertCrew(ctx, tx, org.ID, project.ID, record, sheets, days); err != nil {
		return uuid.Nil, err
	}
	return project.ID, nil
}

func (s *projectService) insertLocations(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, record *production.ProductionRecord) error {
	locations := make([]types.Location, 0, len(record.Logistics.Locations))
	for _, loc := range record.Logistics.Locations {
		row := types.Location{
			ProjectID:    projectID,
			Name:         orDefault(loc.Name, "Location"),
			Address:      loc.Address,
			ContactName:  loc.Contact,
			ContactPhone: loc.Phone,
			ParkingNotes: loc.Parking,
		}
		if loc.Coordinates != nil {
			lat, lng := loc.Coordinates.Lat, loc.Coordinates.Lng
			row.Latitude = &lat
			row.Longitude = &lng
			row.MapLink = mapsSearchLink(lat, lng)
		}
		locations = append(locations, row)
	}
	_, err := s.locationRepo.CreateBatch(ctx, tx, locations)
	return err
}

func mapsSearchLink(lat, lng float64) string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%f,%f", lat, lng)
}

func (s *projectService) insertCallSheets(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, record *production.ProductionRecord) ([]types.CallSheet, []production.ScheduleDay, error) {
	days := record.ScheduleDays
	if len(days) == 0 {
		days = []production.ScheduleDay{{DayNumber: 1, Date: time.Now().Format("2006-01-02")}}
	}

	hospital := record.Logistics.Hospital
	sheets := make([]types.CallSheet, 0, len(days))
	for _, day := range days {
		shootDate, ok := parseShootDate(day.Date)
		if !ok {
			shootDate = time.Now()
		}

		weather := day.Weather
		if weather == nil {
			weather = record.Logistics.Weather
		}

		sheet := types.CallSheet{
			ProjectID:       projectID,
			DayNumber:       day.DayNumber,
			ShootDate:       shootDate,
			GeneralCrewCall: orDefault(day.CrewCall, ""),
			TalentCall:      orDefault(day.TalentCall, ""),
			FirstShot:       orDefault(day.ShootCall, ""),
		}
		if weather != nil {
			sheet.WeatherHigh = stripDegrees(orDefault(weather.Temperature.High, ""))
			sheet.WeatherLow = stripDegrees(orDefault(weather.Temperature.Low, ""))
			sheet.WeatherSummary = weather.Conditions
			sheet.Sunrise = orDefault(weather.Sunrise, "")
			sheet.Sunset = orDefault(weather.Sunset, "")
		}
		if hospital != nil {
			sheet.NearestHospital = orDefault(hospital.Name, "")
			sheet.HospitalAddress = hospital.Address
		}
		sheets = append(sheets, sheet)
	}

	created, err := s.callSheetRepo.CreateBatch(ctx, tx, sheets)
	if err != nil {
		return nil, nil, err
	}
	return created, days, nil
}

// resolveCrewMember dedupes against the org-wide registry by email first,
// then phone, merging non-empty fields into the existing row.
func (s *projectService) resolveCrewMember(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, entry production.CrewEntry, department production.Department) (*uuid.UUID, error) {
	name := strings.TrimSpace(entry.Name)
	if production.IsTBD(name) {
		return nil, nil
	}
	parts := strings.SplitN(name, " ", 2)
	firstName := parts[0]
	lastName := ""
	if len(parts) > 1 {
		lastName = parts[1]
	}

	var existing *types.CrewMember
	var err error
	if entry.Email != "" {
		existing, err = s.crewRepo.GetByEmail(ctx, tx, orgID, entry.Email)
		if err != nil {
			return nil, err
		}
	}
	if existing == nil && entry.Phone != "" {
		existing, err = s.crewRepo.GetByPhone(ctx, tx, orgID, entry.Phone)
		if err != nil {
			return nil, err
		}
	}

	if existing != nil {
		fields := map[string]interface{}{}
		if firstName != "" {
			fields["first_name"] = firstName
		}
		if lastName != "" {
			fields["last_name"] = lastName
		}
		if entry.Email != "" {
			fields["email"] = entry.Email
		}
		if entry.Phone != "" {
			fields["phone"] = entry.Phone
		}
		fields["department"] = string(department)
		if entry.Role != "" {
			fields["primary_role"] = entry.Role
		}
		if err := s.crewRepo.UpdateFields(ctx, tx, existing.ID, fields); err != nil {
			return nil, err
		}
		return &existing.ID, nil
	}

	member, err := s.crewRepo.Create(ctx, tx, &types.CrewMember{
		OrganizationID: orgID,
		FirstName:      firstName,
		LastName:       lastName,
		Email:          entry.Email,
		Phone:          entry.Phone,
		Department:     string(department),
		PrimaryRole:    entry.Role,
	})
	if err != nil {
		return nil, err
	}
	return &member.ID, nil
}

func (s *projectService) insertCrew(ctx context.Context, tx *gorm.DB, orgID, projectID uuid.UUID, record *production.ProductionRecord, sheets []types.CallSheet, days []production.ScheduleDay) error {
	crewCallByDay := make(map[int]string, len(days))
	for _, day := range days {
		crewCallByDay[day.DayNumber] = day.CrewCall
	}

	for _, entry := range record.CrewList {
		department := production.NormalizeDepartment(entry.Department)

		memberID, err := s.resolveCrewMember(ctx, tx, orgID, entry, department)
		if err != nil {
			return fmt.Errorf("resolve crew member: %w", err)
		}

		pc := types.ProjectCrew{
			ProjectID:        projectID,
			CrewMemberID:     memberID,
			Role:             orDefault(entry.Role, production.TBD),
			Department:       string(department),
			DealRate:         production.ParseRate(entry.Rate.String()),
			PaymentType:      entry.PaymentType,
			OnboardingStatus: entry.OnboardingStatus,
			NdaSigned:        entry.NdaSigned,
			BtsConsent:       entry.BtsConsent,
			IsLoanOut:        entry.IsLoanOut,
			WalkieAssigned:   entry.WalkieAssigned,
			AgentName:        entry.AgentName,
			AgentPhone:       entry.AgentPhone,
			AgentEmail:       entry.AgentEmail,
			Notes:            entry.Notes,
		}
		if len(entry.WorkingDays) > 0 {
			raw, err := json.Marshal(entry.WorkingDays)
			if err != nil {
				return err
			}
			pc.WorkingDays = datatypes.JSON(raw)
		}
		created, err := s.projCrewRepo.CreateBatch(ctx, tx, []types.ProjectCrew{pc})
		if err != nil {
			return err
		}

		rsvps := make([]types.CallSheetRsvp, 0, len(sheets))
		for _, sheet := range sheets {
			callTime := entry.CallTime
			if production.IsTBD(callTime) {
				callTime = crewCallByDay[sheet.DayNumber]
			}
			rsvps = append(rsvps, types.CallSheetRsvp{
				CallSheetID:          sheet.ID,
				ProjectCrewID:        created[0].ID,
				PersonalizedCallTime: orDefault(callTime, ""),
				PersonalizedLocation: orDefault(entry.Location, "Set"),
			})
		}
		if _, err := s.rsvpRepo.CreateBatch(ctx, tx, rsvps); err != nil {
			return err
		}
	}
	return nil
}

// ---- Frontend view ----

type ProjectView struct {
	Project     ProjectSummary   `json:"project"`
	CallSheets  []CallSheetView  `json:"callSheets"`
	Locations   []LocationView   `json:"locations"`
	Departments []DepartmentView `json:"departments"`
}

type ProjectSummary struct {
	ID        uuid.UUID `json:"id"`
	JobName   string    `json:"jobName"`
	JobNumber string    `json:"jobNumber"`
	Client    string    `json:"client"`
	Agency    string    `json:"agency"`
}

type CallSheetView struct {
	ID              uuid.UUID    `json:"id"`
	DayNumber       int          `json:"dayNumber"`
	ShootDate       string       `json:"shootDate"`
	GeneralCrewCall string       `json:"generalCrewCall"`
	Weather         WeatherView  `json:"weather"`
	Hospital        HospitalView `json:"hospital"`
}

type WeatherView struct {
	High    string `json:"high"`
	Low     string `json:"low"`
	Summary string `json:"summary"`
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

type HospitalView struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type LocationView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	MapLink      string    `json:"mapLink"`
	ParkingNotes string    `json:"parkingNotes"`
}

type CrewView struct {
	ID       uuid.UUID `json:"id"`
	Role     string    `json:"role"`
	Name     string    `json:"name,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Email    string    `json:"email,omitempty"`
	CallTime string    `json:"callTime"`
	Location string    `json:"location"`
}

type DepartmentView struct {
	Name     string     `json:"name"`
	Count    int        `json:"count"`
	Expanded bool       `json:"expanded"`
	Crew     []CrewView `json:"crew"`
}

func (s *projectService) GetProjectForFrontend(ctx context.Context, projectID uuid.UUID) (*ProjectView, error) {
	project, err := s.projectRepo.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}

	clientName := project.Client
	if project.ClientID != nil {
		client, err := s.clientRepo.GetByID(ctx, nil, *project.ClientID)
		if err != nil {
			return nil, err
		}
		if client != nil {
			clientName = client.Name
		}
	}

	sheets, err := s.callSheetRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, err
	}
	crew, err := s.projCrewRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, err
	}
	locations, err := s.locationRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, err
	}

	var firstSheet *types.CallSheet
	if len(sheets) > 0 {
		firstSheet = &sheets[0]
	}

	departmentsMap := make(map[string][]CrewView)
	for _, pc := range crew {
		deptName := production.Department(pc.Department).DisplayName()

		view := CrewView{
			ID:       pc.ID,
			Role:     pc.Role,
			CallTime: production.TBD,
			Location: "Set",
		}
		if pc.CrewMember != nil {
			view.Name = strings.TrimSpace(pc.CrewMember.FirstName + " " + pc.CrewMember.LastName)
			view.Phone = pc.CrewMember.Phone
			view.Email = pc.CrewMember.Email
		}
		if firstSheet != nil {
			rsvp, err := s.rsvpRepo.GetByProjectCrewAndCallSheet(ctx, nil, pc.ID, firstSheet.ID)
			if err != nil {
				return nil, err
			}
			if rsvp != nil {
				view.CallTime = orDefault(rsvp.PersonalizedCallTime, production.TBD)
				view.Location = orDefault(rsvp.PersonalizedLocation, "Set")
			}
		}
		departmentsMap[deptName] = append(departmentsMap[deptName], view)
	}

	departments := make([]DepartmentView, 0, len(departmentsMap))
	for name, members := range departmentsMap {
		departments = append(departments, DepartmentView{
			Name:  name,
			Count: len(members),
			Crew:  members,
		})
	}
	sort.Slice(departments, func(i, j int) bool {
		return departmentRank(departments[i].Name) < departmentRank(departments[j].Name)
	})

	view := &ProjectView{
		Project: ProjectSummary{
			ID:        project.ID,
			JobName:   project.JobName,
			JobNumber: project.JobNumber,
			Client:    clientName,
			Agency:    project.Agency,
		},
		CallSheets:  make([]CallSheetView, 0, len(sheets)),
		Locations:   make([]LocationView, 0, len(locations)),
		Departments: departments,
	}

	for _, sheet := range sheets {
		view.CallSheets = append(view.CallSheets, CallSheetView{
			ID:              sheet.ID,
			DayNumber:       sheet.DayNumber,
			ShootDate:       sheet.ShootDate.Format("2006-01-02"),
			GeneralCrewCall: orDefault(sheet.GeneralCrewCall, production.TBD),
			Weather: WeatherView{
				High:    sheet.WeatherHigh,
				Low:     sheet.WeatherLow,
				Summary: sheet.WeatherSummary,
				Sunrise: sheet.Sunrise,
				Sunset:  sheet.Sunset,
			},
			Hospital: HospitalView{
				Name:    sheet.NearestHospital,
				Address: sheet.HospitalAddress,
			},
		})
	}
	for _, loc := range locations {
		view.Locations = append(view.Locations, LocationView{
			ID:           loc.ID,
			Name:         loc.Name,
			Address:      loc.Address,
			City:         loc.City,
			State:        loc.State,
			MapLink:      loc.MapLink,
			ParkingNotes: loc.ParkingNotes,
		})
	}
	return view, nil
}

func departmentRank(displayName string) int {
	for i, dept := range production.DepartmentOrder {
		if dept.DisplayName() == displayName {
			return i
		}
	}
	return len(production.DepartmentOrder)
}

// ---- Chat edit operations ----

func (s *projectService) UpdateCallSheet(ctx context.Context, callSheetID uuid.UUID, upd CallSheetUpdate) (bool, error) {
	sheet, err := s.callSheetRepo.GetByID(ctx, nil, callSheetID)
	if err != nil {
		return false, err
	}
	if sheet == nil {
		return false, nil
	}

	fields := map[string]interface{}{}
	if upd.ShootDate != nil {
		if parsed, ok := parseShootDate(*upd.ShootDate); ok {
			fields["shoot_date"] = parsed
		}
	}
	if upd.GeneralCrewCall != nil {
		fields["general_crew_call"] = *upd.GeneralCrewCall
	}
	if upd.HospitalName != nil {
		fields["nearest_hospital"] = *upd.HospitalName
	}
	if upd.HospitalAddress != nil {
		fields["hospital_address"] = *upd.HospitalAddress
	}
	if len(fields) == 0 {
		return true, nil
	}
	if err := s.callSheetRepo.UpdateFields(ctx, nil, callSheetID, fields); err != nil {
		return false, err
	}
	return true, nil
}

func (s *projectService) UpdateCrewRsvp(ctx context.Context, projectCrewID uuid.UUID, upd RsvpUpdate) (bool, error) {
	var rsvp *types.CallSheetRsvp
	var err error
	if upd.CallSheetID != nil {
		rsvp, err = s.rsvpRepo.GetByProjectCrewAndCallSheet(ctx, nil, projectCrewID, *upd.CallSheetID)
	} else {
		rsvp, err = s.rsvpRepo.GetFirstByProjectCrew(ctx, nil, projectCrewID)
	}
	if err != nil {
		return false, err
	}
	if rsvp == nil {
		return false, nil
	}

	fields := map[string]interface{}{}
	if upd.CallTime != nil {
		fields["personalized_call_time"] = *upd.CallTime
	}
	if upd.Location != nil {
		fields["personalized_location"] = *upd.Location
	}
	if len(fields) == 0 {
		return true, nil
	}
	if err := s.rsvpRepo.UpdateFields(ctx, nil, rsvp.ID, fields); err != nil {
		return false, err
	}
	return true, nil
}

func (s *projectService) UpdateProject(ctx context.Context, projectID uuid.UUID, upd ProjectUpdate) (bool, error) {
	project, err := s.projectRepo.GetByID(ctx, nil, projectID)
	if err != nil {
		return false, err
	}
	if project == nil {
		return false, nil
	}

	fields := map[string]interface{}{}
	if upd.JobName != nil {
		fields["job_name"] = *upd.JobName
	}
	if upd.Client != nil {
		fields["client"] = *upd.Client
	}
	if upd.Agency != nil {
		fields["agency"] = *upd.Agency
	}
	if len(fields) == 0 {
		return true, nil
	}
	if err := s.projectRepo.UpdateFields(ctx, nil, projectID, fields); err != nil {
		return false, err
	}
	return true, nil
}

func (s *projectService) UpdateLocation(ctx context.Context, locationID uuid.UUID, upd LocationUpdate) (bool, error) {
	location, err := s.locationRepo.GetByID(ctx, nil, locationID)
	if err != nil {
		return false, err
	}
	if location == nil {
		return false, nil
	}

	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Address != nil {
		fields["address"] = *upd.Address
		// Address changes invalidate stored coordinates; re-geocode and
		// refresh the map link when the lookup succeeds.
		if s.geocoder != nil {
			if coords := s.geocoder.Geocode(ctx, *upd.Address); coords != nil {
				fields["latitude"] = coords.Lat
				fields["longitude"] = coords.Lng
				fields["map_link"] = mapsSearchLink(coords.Lat, coords.Lng)
			} else {
				s.log.Warn("Re-geocode failed on location update", "locationID", locationID)
			}
		}
	}
	if len(fields) == 0 {
		return true, nil
	}
	if err := s.locationRepo.UpdateFields(ctx, nil, locationID, fields); err != nil {
		return false, err
	}
	return true, nil
}
