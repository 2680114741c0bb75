package task

// SortField selects the column tasks are ordered by.
type SortField string

const (
	SortByName             SortField = "name"
	SortByPriority         SortField = "priority"
	SortByLastStartTime    SortField = "last_start_time"
	SortByTotalElapsedTime SortField = "total_elapsed_time"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListOptions controls task ordering. Zero values select the most recently
// started tasks first.
type ListOptions struct {
	SortField SortField
	SortOrder SortOrder
}

func (o ListOptions) normalize() (ListOptions, error) {
	if o.SortField == "" {
		o.SortField = SortByLastStartTime
	}
	if o.SortOrder == "" {
		o.SortOrder = SortDesc
	}
	switch o.SortField {
	case SortByName, SortByPriority, SortByLastStartTime, SortByTotalElapsedTime:
	default:
		return o, ErrInvalidSort
	}
	if o.SortOrder != SortAsc && o.SortOrder != SortDesc {
		return o, ErrInvalidSort
	}
	return o, nil
}
