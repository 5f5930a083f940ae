package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/xiaodeng873/CareApp/internal/careslot"
	"github.com/xiaodeng873/CareApp/internal/event"
	"github.com/xiaodeng873/CareApp/internal/model"
	"github.com/xiaodeng873/CareApp/internal/repository"
)

var errMockBackend = errors.New("connection refused")

// ── Mock ResidentRepository ──

type mockResidentRepo struct {
	residents map[int64]*model.Resident
	err       error
}

func newMockResidentRepo() *mockResidentRepo {
	return &mockResidentRepo{residents: make(map[int64]*model.Resident)}
}

func (m *mockResidentRepo) sortedActive() []model.Resident {
	var result []model.Resident
	for _, r := range m.residents {
		if r.IsActive() {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].BedCode < result[j].BedCode })
	return result
}

func (m *mockResidentRepo) ListActive(_ context.Context) ([]model.Resident, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sortedActive(), nil
}

func (m *mockResidentRepo) SearchActive(_ context.Context, query string) ([]model.Resident, error) {
	if m.err != nil {
		return nil, m.err
	}
	query = strings.TrimSpace(query)
	var result []model.Resident
	for _, r := range m.sortedActive() {
		if query == "" ||
			strings.Contains(strings.ToLower(r.BedCode), strings.ToLower(query)) ||
			strings.Contains(r.DisplayName, query) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockResidentRepo) GetByID(_ context.Context, id int64) (*model.Resident, error) {
	if m.err != nil {
		return nil, m.err
	}
	if r, ok := m.residents[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResidentRepo) GetActiveByBedCode(_ context.Context, bedCode string) (*model.Resident, error) {
	for _, r := range m.sortedActive() {
		if strings.EqualFold(r.BedCode, bedCode) {
			r := r
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResidentRepo) GetActiveByBedID(_ context.Context, bedID string) (*model.Resident, error) {
	for _, r := range m.sortedActive() {
		if r.BedID != nil && *r.BedID == bedID {
			r := r
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock BedRepository ──

type mockBedRepo struct {
	beds map[string]*model.Bed
}

func newMockBedRepo() *mockBedRepo {
	return &mockBedRepo{beds: make(map[string]*model.Bed)}
}

func (m *mockBedRepo) GetByQRCodeID(_ context.Context, qrCodeID string) (*model.Bed, error) {
	for _, b := range m.beds {
		if b.QRCodeID == qrCodeID {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBedRepo) GetByNumber(_ context.Context, bedNumber string) (*model.Bed, error) {
	for _, b := range m.beds {
		if strings.EqualFold(b.BedNumber, bedNumber) {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock CareRecordRepository ──

type mockCareRecordRepo struct {
	mu        sync.Mutex
	records   map[string]model.CareRecord // id → record
	createErr error
	creates   int
	updates   int
}

func newMockCareRecordRepo() *mockCareRecordRepo {
	return &mockCareRecordRepo{records: make(map[string]model.CareRecord)}
}

func (m *mockCareRecordRepo) ListByRange(_ context.Context, ct careslot.CareType, patientID int64, from, to careslot.Date) ([]model.CareRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.CareRecord
	for _, r := range m.records {
		d := r.RecordDate()
		if r.CareType() == ct && r.ResidentID() == patientID && !d.Before(from) && !d.After(to) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RecordDate().Before(result[j].RecordDate()) })
	return result, nil
}

func (m *mockCareRecordRepo) FindBySlot(_ context.Context, ct careslot.CareType, patientID int64, date careslot.Date, slot string) (model.CareRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.CareType() == ct && r.ResidentID() == patientID && r.RecordDate() == date && r.SlotLabel() == slot {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCareRecordRepo) GetByID(_ context.Context, ct careslot.CareType, id string) (model.CareRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok && r.CareType() == ct {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCareRecordRepo) Create(_ context.Context, rec model.CareRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		err := m.createErr
		m.createErr = nil
		return err
	}
	m.creates++
	m.records[rec.RecordID()] = rec
	return nil
}

func (m *mockCareRecordRepo) Update(_ context.Context, rec model.CareRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.RecordID()]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.updates++
	m.records[rec.RecordID()] = rec
	return nil
}

func (m *mockCareRecordRepo) Delete(_ context.Context, ct careslot.CareType, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok && r.CareType() == ct {
		delete(m.records, id)
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockCareRecordRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// ── Mock Publisher ──

type mockPublisher struct {
	events []event.CareRecordEvent
	err    error
}

func (p *mockPublisher) Publish(_ context.Context, evt event.CareRecordEvent) error {
	p.events = append(p.events, evt)
	return p.err
}

func (p *mockPublisher) Close() {}

// ── Mock TokenRevoker ──

type mockRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func (r *mockRevoker) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	if r.revoked == nil {
		r.revoked = make(map[string]time.Duration)
	}
	r.revoked[jti] = ttl
	return nil
}

// ── 共用測試資料 ──

// 2026-10-16（星期五）香港時間 12:00
var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, careslot.FacilityZone)

var testToday = careslot.Date{Year: 2026, Month: time.October, Day: 16}

func strPtr(s string) *string { return &s }

type mockRepos struct {
	resident   *mockResidentRepo
	bed        *mockBedRepo
	careRecord *mockCareRecordRepo
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		resident:   newMockResidentRepo(),
		bed:        newMockBedRepo(),
		careRecord: newMockCareRecordRepo(),
	}
	repo := &repository.Repository{
		Resident:   m.resident,
		Bed:        m.bed,
		CareRecord: m.careRecord,
	}
	return repo, m
}

// seedResidents A01 陳大文（在住，bed-1）、A02 李小美（在住，無床位）、B01 已離院
func seedResidents(m *mockRepos) {
	birth := model.ToDBDate(careslot.Date{Year: 1940, Month: time.October, Day: 17})
	m.resident.residents[1] = &model.Resident{
		ResidentID: 1, BedCode: "A01", DisplayName: "陳大文", Sex: "男",
		Status: model.ResidentStatusActive, BedID: strPtr("bed-1"),
		BirthDate: &birth, InfectionControl: pq.StringArray{"MRSA"}, CareLevel: strPtr("高"),
	}
	m.resident.residents[2] = &model.Resident{
		ResidentID: 2, BedCode: "A02", DisplayName: "李小美", Sex: "女",
		Status: model.ResidentStatusActive,
	}
	m.resident.residents[3] = &model.Resident{
		ResidentID: 3, BedCode: "B01", DisplayName: "張三", Sex: "男",
		Status: "已離院", BedID: strPtr("bed-3"),
	}
	m.bed.beds["bed-1"] = &model.Bed{BedID: "bed-1", BedNumber: "A01", QRCodeID: "QR-A01"}
	m.bed.beds["bed-2"] = &model.Bed{BedID: "bed-2", BedNumber: "C09", QRCodeID: "QR-C09"}
	m.bed.beds["bed-3"] = &model.Bed{BedID: "bed-3", BedNumber: "B01", QRCodeID: "QR-B01"}
}
