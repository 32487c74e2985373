package persistence

import (
	"context"
	"errors"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// applyActiveFilter narrows a directory query by the "active" entry of filter.Filters
func applyActiveFilter(query *gorm.DB, filter shared.Filter, column string) *gorm.DB {
	if active, ok := filter.Filters["active"].(bool); ok {
		query = query.Where(column+" = ?", active)
	}
	return query
}

// GormHouseRepository implements HouseRepository using GORM
type GormHouseRepository struct {
	db *gorm.DB
}

// NewGormHouseRepository creates a new GormHouseRepository
func NewGormHouseRepository(db *gorm.DB) *GormHouseRepository {
	return &GormHouseRepository{db: db}
}

// FindByID finds a house by its ID
func (r *GormHouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.House, error) {
	var model models.HouseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds houses by IDs; unknown IDs are skipped
func (r *GormHouseRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]directory.House, error) {
	if len(ids) == 0 {
		return []directory.House{}, nil
	}
	var houseModels []models.HouseModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&houseModels).Error; err != nil {
		return nil, err
	}
	houses := make([]directory.House, len(houseModels))
	for i, model := range houseModels {
		houses[i] = *model.ToDomain()
	}
	return houses, nil
}

// FindAll finds houses matching the filter
func (r *GormHouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directory.House, error) {
	var houseModels []models.HouseModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.HouseModel{}), filter)
	query = applyOrder(query, filter, "houses", HouseSortFields, "name")
	if err := applyPagination(query, filter).Find(&houseModels).Error; err != nil {
		return nil, err
	}
	houses := make([]directory.House, len(houseModels))
	for i, model := range houseModels {
		houses[i] = *model.ToDomain()
	}
	return houses, nil
}

// Count counts houses matching the filter
func (r *GormHouseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.HouseModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a house
func (r *GormHouseRepository) Save(ctx context.Context, house *directory.House) error {
	return r.db.WithContext(ctx).Save(models.HouseModelFromDomain(house)).Error
}

func (r *GormHouseRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(address) LIKE ?)", pattern, pattern)
	}
	return applyActiveFilter(query, filter, "active")
}

// GormServiceCodeRepository implements ServiceCodeRepository using GORM
type GormServiceCodeRepository struct {
	db *gorm.DB
}

// NewGormServiceCodeRepository creates a new GormServiceCodeRepository
func NewGormServiceCodeRepository(db *gorm.DB) *GormServiceCodeRepository {
	return &GormServiceCodeRepository{db: db}
}

// FindByID finds a service code by its ID
func (r *GormServiceCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.ServiceCode, error) {
	var model models.ServiceCodeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds service codes by IDs; unknown IDs are skipped
func (r *GormServiceCodeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]directory.ServiceCode, error) {
	if len(ids) == 0 {
		return []directory.ServiceCode{}, nil
	}
	var codeModels []models.ServiceCodeModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("code ASC").Find(&codeModels).Error; err != nil {
		return nil, err
	}
	codes := make([]directory.ServiceCode, len(codeModels))
	for i, model := range codeModels {
		codes[i] = *model.ToDomain()
	}
	return codes, nil
}

// FindByCode finds a service code by its code
func (r *GormServiceCodeRepository) FindByCode(ctx context.Context, code string) (*directory.ServiceCode, error) {
	var model models.ServiceCodeModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds service codes matching the filter
func (r *GormServiceCodeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directory.ServiceCode, error) {
	var codeModels []models.ServiceCodeModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ServiceCodeModel{}), filter)
	query = applyOrder(query, filter, "service_codes", ServiceCodeSortFields, "code")
	if err := applyPagination(query, filter).Find(&codeModels).Error; err != nil {
		return nil, err
	}
	codes := make([]directory.ServiceCode, len(codeModels))
	for i, model := range codeModels {
		codes[i] = *model.ToDomain()
	}
	return codes, nil
}

// Count counts service codes matching the filter
func (r *GormServiceCodeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ServiceCodeModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks whether a service code with the given code exists
func (r *GormServiceCodeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ServiceCodeModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a service code
func (r *GormServiceCodeRepository) Save(ctx context.Context, code *directory.ServiceCode) error {
	return r.db.WithContext(ctx).Save(models.ServiceCodeModelFromDomain(code)).Error
}

func (r *GormServiceCodeRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(code) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	return applyActiveFilter(query, filter, "active")
}

// GormStaffRepository implements StaffRepository using GORM
type GormStaffRepository struct {
	db *gorm.DB
}

// NewGormStaffRepository creates a new GormStaffRepository
func NewGormStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

// FindByID finds a staff member by ID
func (r *GormStaffRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Staff, error) {
	var model models.StaffModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds staff members by IDs; unknown IDs are skipped
func (r *GormStaffRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]directory.Staff, error) {
	if len(ids) == 0 {
		return []directory.Staff{}, nil
	}
	var staffModels []models.StaffModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&staffModels).Error; err != nil {
		return nil, err
	}
	return staffToDomain(staffModels), nil
}

// FindRoster returns every staff member, active or not, ordered by name
func (r *GormStaffRepository) FindRoster(ctx context.Context) ([]directory.Staff, error) {
	var staffModels []models.StaffModel
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&staffModels).Error; err != nil {
		return nil, err
	}
	return staffToDomain(staffModels), nil
}

// FindAll finds staff members matching the filter
func (r *GormStaffRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directory.Staff, error) {
	var staffModels []models.StaffModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.StaffModel{}), filter)
	query = applyOrder(query, filter, "staff", StaffSortFields, "name")
	if err := applyPagination(query, filter).Find(&staffModels).Error; err != nil {
		return nil, err
	}
	return staffToDomain(staffModels), nil
}

// Count counts staff members matching the filter
func (r *GormStaffRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.StaffModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a staff member
func (r *GormStaffRepository) Save(ctx context.Context, staff *directory.Staff) error {
	return r.db.WithContext(ctx).Save(models.StaffModelFromDomain(staff)).Error
}

func (r *GormStaffRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(role) LIKE ?)", pattern, pattern)
	}
	return applyActiveFilter(query, filter, "active")
}

func staffToDomain(staffModels []models.StaffModel) []directory.Staff {
	staff := make([]directory.Staff, len(staffModels))
	for i, model := range staffModels {
		staff[i] = *model.ToDomain()
	}
	return staff
}

// GormPatientRepository implements PatientRepository using GORM
type GormPatientRepository struct {
	db *gorm.DB
}

// NewGormPatientRepository creates a new GormPatientRepository
func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

// FindByID finds a patient by ID
func (r *GormPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Patient, error) {
	var model models.PatientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds patients by IDs; unknown IDs are skipped
func (r *GormPatientRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]directory.Patient, error) {
	if len(ids) == 0 {
		return []directory.Patient{}, nil
	}
	var patientModels []models.PatientModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&patientModels).Error; err != nil {
		return nil, err
	}
	patients := make([]directory.Patient, len(patientModels))
	for i, model := range patientModels {
		patients[i] = *model.ToDomain()
	}
	return patients, nil
}

// FindAll finds patients matching the filter
func (r *GormPatientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directory.Patient, error) {
	var patientModels []models.PatientModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.PatientModel{}), filter)
	query = applyOrder(query, filter, "patients", PatientSortFields, "name")
	if err := applyPagination(query, filter).Find(&patientModels).Error; err != nil {
		return nil, err
	}
	patients := make([]directory.Patient, len(patientModels))
	for i, model := range patientModels {
		patients[i] = *model.ToDomain()
	}
	return patients, nil
}

// Count counts patients matching the filter
func (r *GormPatientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.PatientModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a patient
func (r *GormPatientRepository) Save(ctx context.Context, patient *directory.Patient) error {
	return r.db.WithContext(ctx).Save(models.PatientModelFromDomain(patient)).Error
}

// applyFilterWithoutPagination maps the "active" filter onto the patient status
func (r *GormPatientRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(program) LIKE ?)", pattern, pattern)
	}
	if active, ok := filter.Filters["active"].(bool); ok {
		if active {
			query = query.Where("status = ?", directory.PatientStatusActive)
		} else {
			query = query.Where("status <> ?", directory.PatientStatusActive)
		}
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	return query
}

var (
	_ directory.HouseRepository       = (*GormHouseRepository)(nil)
	_ directory.ServiceCodeRepository = (*GormServiceCodeRepository)(nil)
	_ directory.StaffRepository       = (*GormStaffRepository)(nil)
	_ directory.PatientRepository     = (*GormPatientRepository)(nil)
)
