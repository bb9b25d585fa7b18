package todo

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/pocketlist/internal/todo/domain/value_objects"
)

// Item is a single to-do record as stored in the collection.
type Item struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Completed   bool                   `json:"completed"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   *time.Time             `json:"updatedAt"`
	DueDate     *time.Time             `json:"dueDate"`
	Priority    value_objects.Priority `json:"priority"`
}

// Draft carries the caller-supplied fields of a new item.
// Nil Completed means false, nil Priority means MEDIUM.
type Draft struct {
	Title       string
	Description string
	Completed   *bool
	DueDate     *time.Time
	Priority    *value_objects.Priority
}

// Validate rejects field values that cannot be stored.
func (d Draft) Validate() error {
	if d.Priority != nil && !d.Priority.IsValid() {
		return fmt.Errorf("%w: %d", value_objects.ErrInvalidPriority, int(*d.Priority))
	}
	return nil
}

// NewItem builds the record for a draft. The repository supplies id and creation time.
func NewItem(id string, d Draft, createdAt time.Time) Item {
	item := Item{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		CreatedAt:   createdAt,
		DueDate:     copyTime(d.DueDate),
		Priority:    value_objects.PriorityMedium,
	}
	if d.Completed != nil {
		item.Completed = *d.Completed
	}
	if d.Priority != nil {
		item.Priority = *d.Priority
	}
	return item
}

// Patch is a partial update. Nil slots keep the existing value.
// Identity and creation time have no slot and cannot be changed.
type Patch struct {
	Title        *string
	Description  *string
	Completed    *bool
	DueDate      *time.Time
	ClearDueDate bool // removes the due date; takes precedence over DueDate
	Priority     *value_objects.Priority
}

// Validate rejects field values that cannot be stored.
func (p Patch) Validate() error {
	if p.Priority != nil && !p.Priority.IsValid() {
		return fmt.Errorf("%w: %d", value_objects.ErrInvalidPriority, int(*p.Priority))
	}
	return nil
}

// Validate reports a stored record that does not form a valid item.
func (i Item) Validate() error {
	if !i.Priority.IsValid() {
		return fmt.Errorf("item %s: %w: missing or unknown priority", i.ID, value_objects.ErrInvalidPriority)
	}
	return nil
}

// Apply returns a copy of item with the patch merged in and UpdatedAt set to now.
func (p Patch) Apply(item Item, now time.Time) Item {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Completed != nil {
		item.Completed = *p.Completed
	}
	if p.ClearDueDate {
		item.DueDate = nil
	} else if p.DueDate != nil {
		item.DueDate = copyTime(p.DueDate)
	}
	if p.Priority != nil {
		item.Priority = *p.Priority
	}
	item.UpdatedAt = &now
	return item
}

// Fields returns the names of the slots present in the patch.
func (p Patch) Fields() []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.Completed != nil {
		fields = append(fields, "completed")
	}
	if p.ClearDueDate || p.DueDate != nil {
		fields = append(fields, "dueDate")
	}
	if p.Priority != nil {
		fields = append(fields, "priority")
	}
	return fields
}

// IsEmpty reports whether the patch changes no field.
func (p Patch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Matches reports whether term occurs, ignoring case, in the title,
// the description or the priority name. The empty term matches everything.
func (i Item) Matches(term string) bool {
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(i.Title), needle) ||
		strings.Contains(strings.ToLower(i.Description), needle) ||
		strings.Contains(strings.ToLower(i.Priority.String()), needle)
}

// IsOverdue reports whether an incomplete item is past its due date.
func (i Item) IsOverdue(now time.Time) bool {
	return !i.Completed && i.DueDate != nil && i.DueDate.Before(now)
}

// LastModified returns UpdatedAt, or CreatedAt if the item was never updated.
func (i Item) LastModified() time.Time {
	if i.UpdatedAt != nil {
		return *i.UpdatedAt
	}
	return i.CreatedAt
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
