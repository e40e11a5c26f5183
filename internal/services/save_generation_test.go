package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epitomehq/callsheet-backend/internal/production"
	"github.com/epitomehq/callsheet-backend/internal/types"
)

// repoState is the shared in-memory store behind the fake repos. The ops log
// records destructive calls in order so tests can assert delete sequencing.
type repoState struct {
	ops []string

	orgs       []types.Organization
	clients    []types.Client
	projects   []types.Project
	locations  []types.Location
	callSheets []types.CallSheet
	crew       []types.CrewMember
	projCrew   []types.ProjectCrew
	rsvps      []types.CallSheetRsvp

	crewUpdates map[uuid.UUID]map[string]interface{}
}

func newRepoState() *repoState {
	return &repoState{crewUpdates: map[uuid.UUID]map[string]interface{}{}}
}

type fakeOrgRepo struct{ st *repoState }

func (f *fakeOrgRepo) Create(ctx context.Context, tx *gorm.DB, org *types.Organization) (*types.Organization, error) {
	org.ID = uuid.New()
	f.st.orgs = append(f.st.orgs, *org)
	return org, nil
}

func (f *fakeOrgRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Organization, error) {
	for i := range f.st.orgs {
		if f.st.orgs[i].Slug == slug {
			return &f.st.orgs[i], nil
		}
	}
	return nil, nil
}

type fakeClientRepo struct{ st *repoState }

func (f *fakeClientRepo) Create(ctx context.Context, tx *gorm.DB, client *types.Client) (*types.Client, error) {
	client.ID = uuid.New()
	f.st.clients = append(f.st.clients, *client)
	return client, nil
}

func (f *fakeClientRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Client, error) {
	for i := range f.st.clients {
		if f.st.clients[i].ID == id {
			return &f.st.clients[i], nil
		}
	}
	return nil, nil
}

func (f *fakeClientRepo) GetByName(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, name string) (*types.Client, error) {
	for i := range f.st.clients {
		if f.st.clients[i].OrganizationID == orgID && f.st.clients[i].Name == name {
			return &f.st.clients[i], nil
		}
	}
	return nil, nil
}

func (f *fakeClientRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return nil
}

type fakeProjectRepo struct{ st *repoState }

func (f *fakeProjectRepo) Create(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error) {
	project.ID = uuid.New()
	f.st.projects = append(f.st.projects, *project)
	return project, nil
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Project, error) {
	for i := range f.st.projects {
		if f.st.projects[i].ID == id {
			return &f.st.projects[i], nil
		}
	}
	return nil, nil
}

func (f *fakeProjectRepo) GetByOrgAndJobNumber(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, jobNumber string) (*types.Project, error) {
	for i := range f.st.projects {
		if f.st.projects[i].OrganizationID == orgID && f.st.projects[i].JobNumber == jobNumber {
			return &f.st.projects[i], nil
		}
	}
	return nil, nil
}

func (f *fakeProjectRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return nil
}

type fakeLocationRepo struct{ st *repoState }

func (f *fakeLocationRepo) CreateBatch(ctx context.Context, tx *gorm.DB, locations []types.Location) ([]types.Location, error) {
	for i := range locations {
		locations[i].ID = uuid.New()
	}
	f.st.locations = append(f.st.locations, locations...)
	return locations, nil
}

func (f *fakeLocationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Location, error) {
	return nil, nil
}

func (f *fakeLocationRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]types.Location, error) {
	var out []types.Location
	for _, loc := range f.st.locations {
		if loc.ProjectID == projectID {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (f *fakeLocationRepo) DeleteByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error {
	f.st.ops = append(f.st.ops, "delete locations")
	kept := f.st.locations[:0]
	for _, loc := range f.st.locations {
		if loc.ProjectID != projectID {
			kept = append(kept, loc)
		}
	}
	f.st.locations = kept
	return nil
}

func (f *fakeLocationRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return nil
}

type fakeCallSheetRepo struct{ st *repoState }

func (f *fakeCallSheetRepo) CreateBatch(ctx context.Context, tx *gorm.DB, sheets []types.CallSheet) ([]types.CallSheet, error) {
	for i := range sheets {
		sheets[i].ID = uuid.New()
	}
	f.st.callSheets = append(f.st.callSheets, sheets...)
	return sheets, nil
}

func (f *fakeCallSheetRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CallSheet, error) {
	return nil, nil
}

func (f *fakeCallSheetRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]types.CallSheet, error) {
	var out []types.CallSheet
	for _, sheet := range f.st.callSheets {
		if sheet.ProjectID == projectID {
			out = append(out, sheet)
		}
	}
	return out, nil
}

func (f *fakeCallSheetRepo) DeleteByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error {
	f.st.ops = append(f.st.ops, "delete call sheets")
	kept := f.st.callSheets[:0]
	for _, sheet := range f.st.callSheets {
		if sheet.ProjectID != projectID {
			kept = append(kept, sheet)
		}
	}
	f.st.callSheets = kept
	return nil
}

func (f *fakeCallSheetRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return nil
}

type fakeCrewRepo struct{ st *repoState }

func (f *fakeCrewRepo) Create(ctx context.Context, tx *gorm.DB, member *types.CrewMember) (*types.CrewMember, error) {
	member.ID = uuid.New()
	f.st.crew = append(f.st.crew, *member)
	return member, nil
}

func (f *fakeCrewRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CrewMember, error) {
	for i := range f.st.crew {
		if f.st.crew[i].ID == id {
			return &f.st.crew[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCrewRepo) GetByEmail(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, email string) (*types.CrewMember, error) {
	for i := range f.st.crew {
		if f.st.crew[i].OrganizationID == orgID && f.st.crew[i].Email == email {
			return &f.st.crew[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCrewRepo) GetByPhone(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, phone string) (*types.CrewMember, error) {
	for i := range f.st.crew {
		if f.st.crew[i].OrganizationID == orgID && f.st.crew[i].Phone == phone {
			return &f.st.crew[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCrewRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	f.st.crewUpdates[id] = fields
	return nil
}

type fakeProjectCrewRepo struct{ st *repoState }

func (f *fakeProjectCrewRepo) CreateBatch(ctx context.Context, tx *gorm.DB, crew []types.ProjectCrew) ([]types.ProjectCrew, error) {
	for i := range crew {
		crew[i].ID = uuid.New()
	}
	f.st.projCrew = append(f.st.projCrew, crew...)
	return crew, nil
}

func (f *fakeProjectCrewRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProjectCrew, error) {
	return nil, nil
}

func (f *fakeProjectCrewRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]types.ProjectCrew, error) {
	var out []types.ProjectCrew
	for _, pc := range f.st.projCrew {
		if pc.ProjectID == projectID {
			out = append(out, pc)
		}
	}
	return out, nil
}

func (f *fakeProjectCrewRepo) DeleteByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error {
	f.st.ops = append(f.st.ops, "delete project crew")
	kept := f.st.projCrew[:0]
	for _, pc := range f.st.projCrew {
		if pc.ProjectID != projectID {
			kept = append(kept, pc)
		}
	}
	f.st.projCrew = kept
	return nil
}

type fakeRsvpRepo struct{ st *repoState }

func (f *fakeRsvpRepo) CreateBatch(ctx context.Context, tx *gorm.DB, rsvps []types.CallSheetRsvp) ([]types.CallSheetRsvp, error) {
	for i := range rsvps {
		rsvps[i].ID = uuid.New()
	}
	f.st.rsvps = append(f.st.rsvps, rsvps...)
	return rsvps, nil
}

func (f *fakeRsvpRepo) GetByProjectCrewAndCallSheet(ctx context.Context, tx *gorm.DB, projectCrewID, callSheetID uuid.UUID) (*types.CallSheetRsvp, error) {
	return nil, nil
}

func (f *fakeRsvpRepo) GetFirstByProjectCrew(ctx context.Context, tx *gorm.DB, projectCrewID uuid.UUID) (*types.CallSheetRsvp, error) {
	return nil, nil
}

func (f *fakeRsvpRepo) DeleteByCallSheetIDs(ctx context.Context, tx *gorm.DB, callSheetIDs []uuid.UUID) error {
	f.st.ops = append(f.st.ops, "delete rsvps")
	drop := make(map[uuid.UUID]bool, len(callSheetIDs))
	for _, id := range callSheetIDs {
		drop[id] = true
	}
	kept := f.st.rsvps[:0]
	for _, rsvp := range f.st.rsvps {
		if !drop[rsvp.CallSheetID] {
			kept = append(kept, rsvp)
		}
	}
	f.st.rsvps = kept
	return nil
}

func (f *fakeRsvpRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return nil
}

func newFakeProjectService(st *repoState) *projectService {
	svc := NewProjectService(testLogger(), ProjectServiceDeps{
		OrgRepo:       &fakeOrgRepo{st: st},
		ClientRepo:    &fakeClientRepo{st: st},
		ProjectRepo:   &fakeProjectRepo{st: st},
		LocationRepo:  &fakeLocationRepo{st: st},
		CallSheetRepo: &fakeCallSheetRepo{st: st},
		CrewRepo:      &fakeCrewRepo{st: st},
		ProjCrewRepo:  &fakeProjectCrewRepo{st: st},
		RsvpRepo:      &fakeRsvpRepo{st: st},
	})
	return svc.(*projectService)
}

func testRecord() *production.ProductionRecord {
	return &production.ProductionRecord{
		ProductionInfo: production.ProductionInfo{
			JobName:   "Spring Promo",
			Client:    "Acme Beverages",
			JobNumber: "EP-2411",
		},
		ScheduleDays: []production.ScheduleDay{
			{DayNumber: 1, Date: "2026-09-14", CrewCall: "7:00 AM"},
			{DayNumber: 2, Date: "2026-09-15", CrewCall: "8:00 AM"},
		},
		CrewList: []production.CrewEntry{
			{Department: "camera", Role: "Director of Photography", Name: "Dana Cho", Email: "dana@example.com", Phone: "310-555-0101"},
			{Department: "sound", Role: "Mixer", Name: "Raj Patel", Phone: "310-555-0144"},
		},
	}
}

func TestResolveCrewMemberEmailMatchWinsOverPhone(t *testing.T) {
	st := newRepoState()
	svc := newFakeProjectService(st)
	ctx := context.Background()
	orgID := uuid.New()

	byEmail, err := svc.crewRepo.Create(ctx, nil, &types.CrewMember{
		OrganizationID: orgID,
		FirstName:      "Dana",
		LastName:       "Cho",
		Email:          "dana@example.com",
	})
	if err != nil {
		t.Fatalf("seed email member: %v", err)
	}
	byPhone, err := svc.crewRepo.Create(ctx, nil, &types.CrewMember{
		OrganizationID: orgID,
		FirstName:      "Other",
		LastName:       "Person",
		Phone:          "310-555-0101",
	})
	if err != nil {
		t.Fatalf("seed phone member: %v", err)
	}

	entry := production.CrewEntry{
		Name:  "Dana Cho",
		Email: "dana@example.com",
		Phone: "310-555-0101",
		Role:  "Director of Photography",
	}
	id, err := svc.resolveCrewMember(ctx, nil, orgID, entry, production.DeptCamera)
	if err != nil {
		t.Fatalf("resolveCrewMember: %v", err)
	}
	if id == nil {
		t.Fatal("resolveCrewMember returned nil ID")
	}
	if *id != byEmail.ID {
		t.Fatalf("matched member %v, want email match %v", *id, byEmail.ID)
	}
	if *id == byPhone.ID {
		t.Fatal("phone match won over email match")
	}
	if len(st.crew) != 2 {
		t.Fatalf("crew registry has %d members, want 2 (no duplicate created)", len(st.crew))
	}
}

func TestResolveCrewMemberMergesOnlyNonEmptyFields(t *testing.T) {
	st := newRepoState()
	svc := newFakeProjectService(st)
	ctx := context.Background()
	orgID := uuid.New()

	existing, err := svc.crewRepo.Create(ctx, nil, &types.CrewMember{
		OrganizationID: orgID,
		FirstName:      "Dana",
		LastName:       "Cho",
		Email:          "dana@example.com",
		Phone:          "310-555-9999",
		PrimaryRole:    "DP",
	})
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}

	// New sighting carries no phone and no role. Those existing values must
	// survive the merge while the named fields overwrite.
	entry := production.CrewEntry{
		Name:  "Dana Choi",
		Email: "dana@example.com",
	}
	id, err := svc.resolveCrewMember(ctx, nil, orgID, entry, production.DeptCamera)
	if err != nil {
		t.Fatalf("resolveCrewMember: %v", err)
	}
	if id == nil || *id != existing.ID {
		t.Fatalf("resolved %v, want existing member %v", id, existing.ID)
	}

	fields, ok := st.crewUpdates[existing.ID]
	if !ok {
		t.Fatal("no UpdateFields call recorded for existing member")
	}
	if got := fields["last_name"]; got != "Choi" {
		t.Fatalf("last_name = %v, want Choi", got)
	}
	if got := fields["department"]; got != "CAMERA" {
		t.Fatalf("department = %v, want CAMERA", got)
	}
	if _, present := fields["phone"]; present {
		t.Fatal("empty phone overwrote existing value")
	}
	if _, present := fields["primary_role"]; present {
		t.Fatal("empty role overwrote existing value")
	}
}

func TestResolveCrewMemberSkipsUnnamedEntries(t *testing.T) {
	st := newRepoState()
	svc := newFakeProjectService(st)

	entry := production.CrewEntry{Name: "TBD", Role: "Gaffer"}
	id, err := svc.resolveCrewMember(context.Background(), nil, uuid.New(), entry, production.DeptGripElectric)
	if err != nil {
		t.Fatalf("resolveCrewMember: %v", err)
	}
	if id != nil {
		t.Fatalf("got member ID %v for placeholder name, want nil", *id)
	}
	if len(st.crew) != 0 {
		t.Fatalf("crew registry has %d members, want 0", len(st.crew))
	}
}

func TestSaveGenerationPersistsRecord(t *testing.T) {
	st := newRepoState()
	svc := newFakeProjectService(st)

	projectID, err := svc.saveGeneration(context.Background(), nil, testRecord())
	if err != nil {
		t.Fatalf("saveGeneration: %v", err)
	}
	if projectID == uuid.Nil {
		t.Fatal("saveGeneration returned nil project ID")
	}
	if len(st.projects) != 1 || st.projects[0].JobNumber != "EP-2411" {
		t.Fatalf("projects = %+v, want one project with job number EP-2411", st.projects)
	}
	if len(st.callSheets) != 2 {
		t.Fatalf("call sheets = %d, want 2", len(st.callSheets))
	}
	if len(st.projCrew) != 2 {
		t.Fatalf("project crew rows = %d, want 2", len(st.projCrew))
	}
	// Two crew, two sheets each.
	if len(st.rsvps) != 4 {
		t.Fatalf("rsvps = %d, want 4", len(st.rsvps))
	}
	if len(st.clients) != 1 || st.clients[0].Name != "Acme Beverages" {
		t.Fatalf("clients = %+v, want Acme Beverages", st.clients)
	}
}

func TestSaveGenerationRegenerationDeletesRsvpsBeforeCallSheets(t *testing.T) {
	st := newRepoState()
	svc := newFakeProjectService(st)
	ctx := context.Background()

	if _, err := svc.saveGeneration(ctx, nil, testRecord()); err != nil {
		t.Fatalf("first saveGeneration: %v", err)
	}
	st.ops = nil

	projectID, err := svc.saveGeneration(ctx, nil, testRecord())
	if err != nil {
		t.Fatalf("second saveGeneration: %v", err)
	}

	want := []string{"delete rsvps", "delete call sheets", "delete project crew", "delete locations"}
	if len(st.ops) != len(want) {
		t.Fatalf("delete ops = %v, want %v", st.ops, want)
	}
	for i := range want {
		if st.ops[i] != want[i] {
			t.Fatalf("delete op %d = %q, want %q (full order %v)", i, st.ops[i], want[i], st.ops)
		}
	}

	// The project row is reused, never duplicated, and children are rebuilt.
	if len(st.projects) != 1 || st.projects[0].ID != projectID {
		t.Fatalf("projects = %+v, want single reused project %v", st.projects, projectID)
	}
	if len(st.callSheets) != 2 {
		t.Fatalf("call sheets after regeneration = %d, want 2", len(st.callSheets))
	}
	if len(st.rsvps) != 4 {
		t.Fatalf("rsvps after regeneration = %d, want 4", len(st.rsvps))
	}
}
