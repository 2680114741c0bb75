package activity

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	TaskID *string
	Type   *ActivityType
	Limit  int
	Offset int
}
