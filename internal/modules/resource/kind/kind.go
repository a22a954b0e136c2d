// Package kind describes the twelve resource kinds as data: which form fields
// a kind has, which storage column each one maps to, the cross-field rules
// and the natural listing order.
package kind

import (
	"sort"

	"anoa.com/folio/internal/entity"
	"anoa.com/folio/internal/validation"
	validatorPkg "anoa.com/folio/pkg/validator"
)

type Shape int

const (
	YearStamped Shape = iota
	DateRanged
	ExpiryRanged
	Linked
)

// PublishedField is the form key of the initial publication flag on create.
const PublishedField = "published"

// Field is a form field stored in a resource column.
type Field struct {
	validation.Field
	Column string
}

type Descriptor struct {
	Name        string
	Label       string
	Shape       Shape
	Fields      []Field
	Refinements []validation.Refinement
	// OrderBy lists SQL order clauses, most significant first.
	OrderBy []string
}

// Schema is the form schema of the kind.
func (d *Descriptor) Schema() *validation.Schema {
	fields := make([]validation.Field, 0, len(d.Fields)+1)
	for _, f := range d.Fields {
		fields = append(fields, f.Field)
	}
	fields = append(fields, validation.Field{Name: PublishedField, Type: validation.Bool})

	return &validation.Schema{
		Name:        d.Name,
		Fields:      fields,
		Refinements: d.Refinements,
	}
}

// Values reads the kind's fields from r, keyed by form field name.
func (d *Descriptor) Values(r *entity.Resource) map[string]*string {
	values := make(map[string]*string, len(d.Fields))
	for _, f := range d.Fields {
		values[f.Name] = *r.Column(f.Column)
	}
	return values
}

// Assign writes every field of the kind into r. Fields missing from values are
// cleared, so an update always replaces the full set.
func (d *Descriptor) Assign(r *entity.Resource, values map[string]*string) {
	for _, f := range d.Fields {
		*r.Column(f.Column) = values[f.Name]
	}
}

// Columns lists the storage columns the kind writes.
func (d *Descriptor) Columns() []string {
	cols := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		cols = append(cols, f.Column)
	}
	return cols
}

const (
	Project        = "project"
	SideProject    = "side_project"
	Exhibition     = "exhibition"
	Speaking       = "speaking"
	Writing        = "writing"
	Award          = "award"
	Feature        = "feature"
	WorkExperience = "work_experience"
	Volunteering   = "volunteering"
	Education      = "education"
	Certification  = "certification"
	Link           = "link"
)

const (
	descriptionRules = "max=5000"
	urlRules         = validatorPkg.LinkRules
)

var registry = map[string]*Descriptor{}

func register(d *Descriptor) {
	registry[d.Name] = d
}

func init() {
	register(yearStamped(Project, "Project", "company"))
	register(yearStamped(SideProject, "Side project", "company"))
	register(yearStamped(Exhibition, "Exhibition", "venue"))
	register(yearStamped(Speaking, "Speaking", "venue"))
	register(yearStamped(Writing, "Writing", "publisher"))
	register(yearStamped(Award, "Award", "presenter"))
	register(yearStamped(Feature, "Feature", "publisher"))
	register(dateRanged(WorkExperience, "Work experience", "title", "company"))
	register(dateRanged(Volunteering, "Volunteering", "title", "organization"))
	register(dateRanged(Education, "Education", "degree", "school"))
	register(certification())
	register(link())
}

// Lookup returns the descriptor of the named kind.
func Lookup(name string) (*Descriptor, bool) {
	d, ok := registry[name]
	return d, ok
}

// All returns every descriptor sorted by name.
func All() []*Descriptor {
	out := make([]*Descriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RegisterSchemas adds the form schema of every kind to e under the kind name.
func RegisterSchemas(e *validation.Engine) {
	for _, d := range All() {
		e.Register(d.Schema())
	}
}

func urlField() Field {
	return Field{Field: validation.Field{Name: "url", Optional: true, Rules: urlRules}, Column: entity.ColumnURL}
}

func descriptionField() Field {
	return Field{Field: validation.Field{Name: "description", Optional: true, RichText: true, Rules: descriptionRules}, Column: entity.ColumnDescription}
}

func yearStamped(name, label, orgField string) *Descriptor {
	return &Descriptor{
		Name:  name,
		Label: label,
		Shape: YearStamped,
		Fields: []Field{
			{Field: validation.Field{Name: "title", Rules: "max=255"}, Column: entity.ColumnTitle},
			{Field: validation.Field{Name: "year", Rules: "max=20"}, Column: entity.ColumnYear},
			{Field: validation.Field{Name: orgField, Optional: true, Rules: "max=255"}, Column: entity.ColumnOrganization},
			urlField(),
			descriptionField(),
		},
		OrderBy: []string{"year DESC", "updated_at DESC"},
	}
}

func dateRanged(name, label, titleField, orgField string) *Descriptor {
	return &Descriptor{
		Name:  name,
		Label: label,
		Shape: DateRanged,
		Fields: []Field{
			{Field: validation.Field{Name: "from", Rules: "max=20"}, Column: entity.ColumnStartDate},
			{Field: validation.Field{Name: "to", Rules: "max=30"}, Column: entity.ColumnEndDate},
			{Field: validation.Field{Name: titleField, Rules: "max=255"}, Column: entity.ColumnTitle},
			{Field: validation.Field{Name: orgField, Rules: "max=255"}, Column: entity.ColumnOrganization},
			{Field: validation.Field{Name: "location", Optional: true, Rules: "max=255"}, Column: entity.ColumnLocation},
			urlField(),
			descriptionField(),
		},
		Refinements: []validation.Refinement{
			validation.DateOrder("from", "to", "End year cannot be before start year", true),
		},
		OrderBy: []string{"end_date DESC", "start_date DESC", "updated_at DESC"},
	}
}

func certification() *Descriptor {
	return &Descriptor{
		Name:  Certification,
		Label: "Certification",
		Shape: ExpiryRanged,
		Fields: []Field{
			{Field: validation.Field{Name: "issued", Rules: "max=20"}, Column: entity.ColumnStartDate},
			{Field: validation.Field{Name: "expires", Rules: "max=30"}, Column: entity.ColumnEndDate},
			{Field: validation.Field{Name: "name", Rules: "max=255"}, Column: entity.ColumnTitle},
			{Field: validation.Field{Name: "organization", Rules: "max=255"}, Column: entity.ColumnOrganization},
			urlField(),
			descriptionField(),
		},
		Refinements: []validation.Refinement{
			validation.DateOrder("issued", "expires", "Expiry cannot be before the issue year", false, validation.ExpirySentinels...),
		},
		OrderBy: []string{"start_date DESC", "updated_at DESC"},
	}
}

func link() *Descriptor {
	return &Descriptor{
		Name:  Link,
		Label: "Link",
		Shape: Linked,
		Fields: []Field{
			{Field: validation.Field{Name: "title", Rules: "max=50"}, Column: entity.ColumnTitle},
			{Field: validation.Field{Name: "url", Rules: urlRules}, Column: entity.ColumnURL},
		},
		OrderBy: []string{"updated_at DESC"},
	}
}
