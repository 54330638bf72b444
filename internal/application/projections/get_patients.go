package projections

import (
	"context"
	"slices"
	"strings"

	"github.com/samber/lo"

	"balancehealth/internal/application/listutil"
	domainPatient "balancehealth/internal/domain/patient"
)

// GetPatientsQuery carries query parameters.
type GetPatientsQuery struct {
	StaffID string
}

// GetPatientsDeps holds dependencies for GetPatients.
type GetPatientsDeps struct {
	PatientStore PatientStore
}

// QueryGetPatients lists the patients owned by a staff member, ordered by name.
// PRE: StaffID is the authenticated staff member
// POST: Returns a non-nil slice
func QueryGetPatients(ctx context.Context, query GetPatientsQuery, deps GetPatientsDeps) ([]domainPatient.Patient, error) {
	patients, err := deps.PatientStore.ListByStaff(ctx, query.StaffID)
	if err != nil {
		return []domainPatient.Patient{}, err
	}
	if patients == nil {
		patients = []domainPatient.Patient{}
	}
	return patients, nil
}

// Sortable columns of the patient list.
const (
	SortName        = "name"
	SortEmail       = "email"
	SortDateOfBirth = "dob"
)

// PatientSortColumns lists the columns the patient list can be sorted by.
var PatientSortColumns = []string{SortName, SortEmail, SortDateOfBirth}

// ListPatientsQuery carries the staff member and list parameters.
type ListPatientsQuery struct {
	StaffID string
	Params  listutil.Params
}

// ListPatientsResult is one page of a staff member's patients.
type ListPatientsResult struct {
	Patients []domainPatient.Patient
	Page     listutil.PageInfo
	Params   listutil.Params
}

// QueryListPatients searches, sorts and pages a staff member's patients.
// Search matches name, email and condition case-insensitively.
// PRE: StaffID is the authenticated staff member
// POST: Patients is non-nil; Page.Total counts every match
func QueryListPatients(ctx context.Context, query ListPatientsQuery, deps GetPatientsDeps) (ListPatientsResult, error) {
	result := ListPatientsResult{Patients: []domainPatient.Patient{}, Params: query.Params}
	all, err := QueryGetPatients(ctx, GetPatientsQuery{StaffID: query.StaffID}, deps)
	if err != nil {
		result.Page = listutil.NewPageInfo(1, query.Params.PerPage, 0)
		return result, err
	}

	if term := strings.ToLower(query.Params.Search); term != "" {
		all = lo.Filter(all, func(p domainPatient.Patient, _ int) bool {
			return strings.Contains(strings.ToLower(p.FullName()+" "+p.Email+" "+p.Condition), term)
		})
	}
	if key := patientSortKey(query.Params.Sort); key != nil {
		slices.SortStableFunc(all, func(a, b domainPatient.Patient) int {
			c := strings.Compare(key(a), key(b))
			if query.Params.Desc {
				return -c
			}
			return c
		})
	}
	result.Patients, result.Page = listutil.Paginate(all, query.Params)
	return result, nil
}

func patientSortKey(column string) func(domainPatient.Patient) string {
	switch column {
	case SortName:
		return func(p domainPatient.Patient) string { return strings.ToLower(p.LastName + " " + p.FirstName) }
	case SortEmail:
		return func(p domainPatient.Patient) string { return p.Email }
	case SortDateOfBirth:
		return func(p domainPatient.Patient) string { return p.DateOfBirth }
	}
	return nil
}
