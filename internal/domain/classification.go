package domain

// ClassificationKind names one of the three reference-data tables
// attached to tickets. Statuses additionally carry an is_closed flag,
// categories have no color; everything else is shared.
type ClassificationKind string

const (
	KindStatus   ClassificationKind = "status"
	KindPriority ClassificationKind = "priority"
	KindCategory ClassificationKind = "category"
)

// HasColor reports whether the kind carries a display color.
func (k ClassificationKind) HasColor() bool {
	return k == KindStatus || k == KindPriority
}

// HasClosedFlag reports whether the kind partitions tickets into
// open/closed. Only statuses do.
func (k ClassificationKind) HasClosedFlag() bool {
	return k == KindStatus
}

// Classification is the shared shape of Status, Priority and Category
// reference data. SortOrder defines presentation order and is not part
// of identity. Color is empty for categories; IsClosed is only
// meaningful on statuses.
type Classification struct {
	ID          string
	Kind        ClassificationKind
	Name        string
	Description string
	IsActive    bool
	SortOrder   int
	Color       string
	IsClosed    bool
}
