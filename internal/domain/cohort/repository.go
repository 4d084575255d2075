package cohort

import "context"

// Repository defines read operations over cohorts used by the admin API.
type Repository interface {
	List(ctx context.Context) ([]*Cohort, error)
	GetByID(ctx context.Context, id int64) (*Cohort, error)
}
