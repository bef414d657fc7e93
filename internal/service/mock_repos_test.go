package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"gis-erp/backend/internal/model"
	"gis-erp/backend/internal/repository"
)

var errMockDB = errors.New("数据库连接中断")

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.EmployeeNo
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmployeeNo(_ context.Context, employeeNo string) (*model.User, error) {
	for _, u := range m.users {
		if u.EmployeeNo == employeeNo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock ResourceRepository ──

type mockResourceRepo struct {
	resources map[string]*model.Resource
	idCounter int
}

func newMockResourceRepo() *mockResourceRepo {
	return &mockResourceRepo{resources: make(map[string]*model.Resource)}
}

func (m *mockResourceRepo) Create(_ context.Context, resource *model.Resource) error {
	if resource.ResourceID == "" {
		m.idCounter++
		resource.ResourceID = fmt.Sprintf("res-%d", m.idCounter)
	}
	m.resources[resource.ResourceID] = resource
	return nil
}

func (m *mockResourceRepo) GetByID(_ context.Context, id string) (*model.Resource, error) {
	if r, ok := m.resources[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResourceRepo) GetByCode(_ context.Context, code string) (*model.Resource, error) {
	for _, r := range m.resources {
		if r.Code == code {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResourceRepo) List(_ context.Context, filter repository.ResourceFilter) ([]model.Resource, error) {
	var result []model.Resource
	for _, r := range m.resources {
		if filter.Type != nil && r.Type != *filter.Type {
			continue
		}
		if filter.ActiveOnly && !r.IsActive {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockResourceRepo) Update(_ context.Context, resource *model.Resource) error {
	m.resources[resource.ResourceID] = resource
	return nil
}

func (m *mockResourceRepo) ReplaceSkills(_ context.Context, resource *model.Resource, skills []model.Skill) error {
	if r, ok := m.resources[resource.ResourceID]; ok {
		r.Skills = skills
		return nil
	}
	return gorm.ErrRecordNotFound
}

// ── Mock SkillRepository ──

type mockSkillRepo struct {
	skills map[string]*model.Skill
}

func newMockSkillRepo() *mockSkillRepo {
	return &mockSkillRepo{skills: make(map[string]*model.Skill)}
}

func (m *mockSkillRepo) Create(_ context.Context, skill *model.Skill) error {
	if skill.SkillID == "" {
		skill.SkillID = "skill-" + skill.Name
	}
	m.skills[skill.SkillID] = skill
	return nil
}

func (m *mockSkillRepo) GetByID(_ context.Context, id string) (*model.Skill, error) {
	if s, ok := m.skills[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSkillRepo) GetByIDs(_ context.Context, ids []string) ([]model.Skill, error) {
	var result []model.Skill
	for _, id := range ids {
		if s, ok := m.skills[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSkillRepo) List(_ context.Context, category *model.SkillCategory) ([]model.Skill, error) {
	var result []model.Skill
	for _, s := range m.skills {
		if category != nil && s.Category != *category {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSkillRepo) Update(_ context.Context, skill *model.Skill) error {
	m.skills[skill.SkillID] = skill
	return nil
}

func (m *mockSkillRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.skills, id)
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
	idCounter   int

	// 注入 ListOverlapping 失败，用于验证冲突检查降级路径
	failOverlapping bool
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.Assignment)}
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	if assignment.AssignmentID == "" {
		m.idCounter++
		assignment.AssignmentID = fmt.Sprintf("asn-%d", m.idCounter)
	}
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) List(_ context.Context, filter repository.AssignmentFilter) ([]model.Assignment, int64, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if filter.ResourceID != nil && a.ResourceID != *filter.ResourceID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.DateFrom != nil && a.EndDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && a.StartDate.After(*filter.DateTo) {
			continue
		}
		result = append(result, *a)
	}
	return result, int64(len(result)), nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.Assignment) error {
	if _, ok := m.assignments[assignment.AssignmentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) ListOverlapping(_ context.Context, resourceID string, start, end time.Time) ([]model.Assignment, error) {
	if m.failOverlapping {
		return nil, errMockDB
	}
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.ResourceID != resourceID || a.Status == model.AssignmentStatusCancelled {
			continue
		}
		if !a.StartDate.After(end) && !start.After(a.EndDate) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListOverlappingForResources(_ context.Context, resourceIDs []string, start, end time.Time) ([]model.Assignment, error) {
	if m.failOverlapping {
		return nil, errMockDB
	}
	var result []model.Assignment
	for _, id := range resourceIDs {
		part, _ := m.ListOverlapping(context.Background(), id, start, end)
		result = append(result, part...)
	}
	return result, nil
}

// ── Mock UnavailabilityRepository ──

type mockUnavailabilityRepo struct {
	// key: resourceID + "|" + "2006-01-02"
	records map[string]*model.UnavailabilityRecord

	// 注入写入失败，用于验证持久化错误路径
	failUpsert bool
	// 注入查询失败
	failList bool
}

func newMockUnavailabilityRepo() *mockUnavailabilityRepo {
	return &mockUnavailabilityRepo{records: make(map[string]*model.UnavailabilityRecord)}
}

func unavailKey(resourceID string, date time.Time) string {
	return resourceID + "|" + date.Format("2006-01-02")
}

func (m *mockUnavailabilityRepo) UpsertDays(_ context.Context, records []model.UnavailabilityRecord) error {
	if m.failUpsert {
		// 整批失败，不得部分写入
		return errMockDB
	}
	for i := range records {
		r := records[i]
		if r.UnavailabilityID == "" {
			r.UnavailabilityID = "un-" + unavailKey(r.ResourceID, r.Date)
		}
		m.records[unavailKey(r.ResourceID, r.Date)] = &r
	}
	return nil
}

func (m *mockUnavailabilityRepo) ListByResourceAndRange(_ context.Context, resourceID string, from, to time.Time) ([]model.UnavailabilityRecord, error) {
	if m.failList {
		return nil, errMockDB
	}
	var result []model.UnavailabilityRecord
	for _, r := range m.records {
		if r.ResourceID != resourceID {
			continue
		}
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockUnavailabilityRepo) ListForResourcesInRange(_ context.Context, resourceIDs []string, from, to time.Time) ([]model.UnavailabilityRecord, error) {
	if m.failList {
		return nil, errMockDB
	}
	var result []model.UnavailabilityRecord
	for _, id := range resourceIDs {
		part, _ := m.ListByResourceAndRange(context.Background(), id, from, to)
		result = append(result, part...)
	}
	return result, nil
}

func (m *mockUnavailabilityRepo) DeleteDay(_ context.Context, resourceID string, date time.Time) (int64, error) {
	key := unavailKey(resourceID, date)
	if _, ok := m.records[key]; !ok {
		return 0, nil
	}
	delete(m.records, key)
	return 1, nil
}

// ── 测试装配 ──

type mockRepos struct {
	user           *mockUserRepo
	resource       *mockResourceRepo
	skill          *mockSkillRepo
	assignment     *mockAssignmentRepo
	unavailability *mockUnavailabilityRepo
}

func newTestRepository() (*repository.Repository, *mockRepos) {
	mocks := &mockRepos{
		user:           newMockUserRepo(),
		resource:       newMockResourceRepo(),
		skill:          newMockSkillRepo(),
		assignment:     newMockAssignmentRepo(),
		unavailability: newMockUnavailabilityRepo(),
	}
	repo := &repository.Repository{
		User:           mocks.user,
		Resource:       mocks.resource,
		Skill:          mocks.skill,
		Assignment:     mocks.assignment,
		Unavailability: mocks.unavailability,
	}
	return repo, mocks
}
